// Package impex implements the contact import and export pipeline.
//
// Import is a small state machine per upload session: Upload (waiting
// for a file), Mapping (headers discovered, user maps source columns
// to contact fields), Submitting (mapping applied, rows admitted,
// stamped and bulk-inserted) and Done. Parse errors keep the session
// in Upload; an empty admission or a failed insert returns it to
// Mapping so the user can retry. Export is the inverse projection to
// CSV or XLSX bytes in a fixed canonical column order.
package impex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"crmgrid/internal/contact"
	"crmgrid/internal/tabular"
)

// State is the import session phase.
type State string

const (
	StateUpload     State = "upload"
	StateMapping    State = "mapping"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
)

// ErrNoAdmissibleRows is returned when every mapped row was blank on
// the identity-bearing fields; nothing is inserted.
var ErrNoAdmissibleRows = errors.New("aucun contact valide trouvé: vérifiez le mapping (au moins Email ou Société)")

// Mapping associates each target contact field with the source column
// header feeding it. A missing or empty entry means "do not import";
// every row then gets the empty string for that field.
type Mapping map[string]string

// Identity is the acting user's tenant context, stamped onto every
// admitted row before submission.
type Identity struct {
	UserID string
	OrgID  string
}

// Inserter is the bulk-create boundary; the store satisfies it. The
// insert is all-or-nothing from the pipeline's perspective.
type Inserter interface {
	CreateBatch(ctx context.Context, contacts []*contact.Contact) error
}

// Result summarizes a completed submission.
type Result struct {
	Admitted  int `json:"admitted"`
	Discarded int `json:"discarded"`
}

// Session is one import flow. Sessions are owned by a Registry and
// accessed from request handlers, so state is mutex-guarded.
type Session struct {
	ID string

	// OnComplete fires exactly once when a submission succeeds; the
	// page layer uses it to refetch the canonical record list.
	OnComplete func()

	mu       sync.Mutex
	state    State
	table    *tabular.Table
	fileName string
	mapping  Mapping
	created  time.Time
}

// NewSession starts a session in the Upload state.
func NewSession() *Session {
	return &Session{
		ID:      uuid.New().String(),
		state:   StateUpload,
		mapping: make(Mapping),
		created: time.Now(),
	}
}

// State reports the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load parses an uploaded file and advances to Mapping. On a parse
// failure the session stays in Upload and the error is surfaced. A
// file with zero data rows is degenerate but loads fine.
func (s *Session) Load(filename string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUpload && s.state != StateMapping {
		return fmt.Errorf("cannot load a file in state %q", s.state)
	}

	t, err := tabular.Parse(filename, data)
	if err != nil {
		return err
	}

	s.table = t
	s.fileName = filename
	s.mapping = make(Mapping)
	s.state = StateMapping
	return nil
}

// Headers returns the source column headers discovered in the file.
func (s *Session) Headers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil
	}
	out := make([]string, len(s.table.Headers))
	copy(out, s.table.Headers)
	return out
}

// FileName returns the name of the loaded file, "" before any upload.
func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// RowCount returns the number of parsed data rows.
func (s *Session) RowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return 0
	}
	return len(s.table.Rows)
}

// MapField binds a target contact field to a source header. An empty
// header clears the binding ("do not import"). Unknown target fields
// and headers not present in the file are rejected.
func (s *Session) MapField(field, sourceHeader string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateMapping {
		return fmt.Errorf("mapping is only editable in the mapping step (state %q)", s.state)
	}
	if !isImportField(field) {
		return fmt.Errorf("unknown import field %q", field)
	}
	if sourceHeader == "" {
		delete(s.mapping, field)
		return nil
	}
	found := false
	for _, h := range s.table.Headers {
		if h == sourceHeader {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("column %q does not exist in the uploaded file", sourceHeader)
	}
	s.mapping[field] = sourceHeader
	return nil
}

// SetMapping replaces the whole mapping at once, validating each entry.
func (s *Session) SetMapping(m Mapping) error {
	for field, header := range m {
		if err := s.MapField(field, header); err != nil {
			return err
		}
	}
	return nil
}

// Mapping returns a copy of the current mapping.
func (s *Session) Mapping() Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Mapping, len(s.mapping))
	for k, v := range s.mapping {
		out[k] = v
	}
	return out
}

// Cancel discards the parsed rows and the mapping and returns to the
// Upload state.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = nil
	s.fileName = ""
	s.mapping = make(Mapping)
	s.state = StateUpload
}

// Confirm applies the mapping to every parsed row, admits rows with a
// non-empty mapped company or email, stamps them with the acting
// user's tenant and submits them as one bulk insert.
//
// Zero admitted rows or a failed insert leave the session in Mapping
// so the user can adjust and retry; the insert error message is
// surfaced verbatim. On success the session is Done and OnComplete
// fires.
func (s *Session) Confirm(ctx context.Context, id Identity, ins Inserter) (*Result, error) {
	s.mu.Lock()
	if s.state != StateMapping {
		s.mu.Unlock()
		return nil, fmt.Errorf("nothing to submit in state %q", s.state)
	}
	s.state = StateSubmitting
	table := s.table
	mapping := s.mapping
	s.mu.Unlock()

	candidates, discarded := applyMapping(table, mapping, id)

	if len(candidates) == 0 {
		s.setState(StateMapping)
		return nil, ErrNoAdmissibleRows
	}

	if err := ins.CreateBatch(ctx, candidates); err != nil {
		s.setState(StateMapping)
		return nil, err
	}

	s.setState(StateDone)
	if s.OnComplete != nil {
		s.OnComplete()
	}
	return &Result{Admitted: len(candidates), Discarded: discarded}, nil
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// applyMapping converts raw rows to contacts. A row is admitted only
// if at least one identity-bearing field (company or email) is
// non-empty after mapping; fully blank rows are silently dropped.
func applyMapping(t *tabular.Table, m Mapping, id Identity) (admitted []*contact.Contact, discarded int) {
	for _, row := range t.Rows {
		company := strings.TrimSpace(mappedValue(row, m, contact.FieldSociete))
		email := strings.TrimSpace(mappedValue(row, m, contact.FieldEmail))
		if company == "" && email == "" {
			discarded++
			continue
		}

		c := &contact.Contact{OrgID: id.OrgID, UserID: id.UserID}
		for _, field := range contact.ImportFields {
			if source := m[field]; source != "" {
				// Import fields are all string-typed; Set never fails here.
				_ = c.Set(field, row.Get(source))
			}
		}
		admitted = append(admitted, c)
	}
	return admitted, discarded
}

// mappedValue reads the source cell feeding a target field, "" when
// the field is unmapped.
func mappedValue(row tabular.Row, m Mapping, field string) string {
	source := m[field]
	if source == "" {
		return ""
	}
	return row.Get(source)
}

func isImportField(field string) bool {
	for _, f := range contact.ImportFields {
		if f == field {
			return true
		}
	}
	return false
}
