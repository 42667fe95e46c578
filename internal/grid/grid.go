package grid

import (
	"fmt"
	"time"

	"crmgrid/internal/contact"
)

// UpdateFunc persists a partial update for one record. The engine
// never touches the store itself; the page layer owns the canonical
// record list and refetches after updates.
type UpdateFunc func(recordID string, fields map[string]any) error

// CellKind tells the view layer how to draw a cell.
type CellKind string

const (
	KindActions  CellKind = "actions"
	KindText     CellKind = "text"
	KindEmail    CellKind = "email"
	KindPhone    CellKind = "phone"
	KindBadge    CellKind = "badge"
	KindCurrency CellKind = "currency"
	KindDate     CellKind = "date"
	KindNumber   CellKind = "number"
)

// Row actions carried by the leading actions column, in render order.
var RowActions = []string{"thread", "view", "edit", "delete"}

// Cell is one rendered grid cell.
type Cell struct {
	ColumnID string   `json:"column_id"`
	Kind     CellKind `json:"kind"`
	Display  string   `json:"display"`
	Raw      string   `json:"raw,omitempty"`
	Editing  bool     `json:"editing,omitempty"`
	Dial     bool     `json:"dial,omitempty"`
	Options  []string `json:"options,omitempty"`
	Actions  []string `json:"actions,omitempty"`
}

// RowView is one rendered record.
type RowView struct {
	RecordID string `json:"record_id"`
	Cells    []Cell `json:"cells"`
}

type editState struct {
	recordID string
	columnID string
	pending  string
}

// Engine renders contacts against a column set and tracks the single
// active inline edit plus the per-column filters.
type Engine struct {
	columns *ColumnSet
	update  UpdateFunc
	filters map[string]string
	edit    *editState
}

// NewEngine builds an engine over a column set. update may be nil for
// read-only rendering; committing an edit then fails loudly.
func NewEngine(columns *ColumnSet, update UpdateFunc) *Engine {
	return &Engine{
		columns: columns,
		update:  update,
		filters: make(map[string]string),
	}
}

// Columns exposes the engine's column set for configuration calls.
func (e *Engine) Columns() *ColumnSet { return e.columns }

// Render produces one row per displayed record: the fixed actions
// column first, then the visible columns in configured order. Records
// failing an active filter are omitted.
func (e *Engine) Render(records []*contact.Contact) []RowView {
	visible := e.columns.VisibleColumns()
	rows := make([]RowView, 0, len(records))

	for _, c := range records {
		if !e.matches(c) {
			continue
		}
		row := RowView{RecordID: c.ID}
		row.Cells = append(row.Cells, Cell{ColumnID: "actions", Kind: KindActions, Actions: RowActions})
		for _, col := range visible {
			row.Cells = append(row.Cells, e.renderCell(c, col))
		}
		rows = append(rows, row)
	}
	return rows
}

// renderCell applies the per-column rendering contracts: enum badges,
// currency formatting, locale dates, the phone dial affordance and the
// mailto affordance.
func (e *Engine) renderCell(c *contact.Contact, col Column) Cell {
	raw := contact.Stringify(c, col.ID)
	cell := Cell{ColumnID: col.ID, Raw: raw}

	if e.edit != nil && e.edit.recordID == c.ID && e.edit.columnID == col.ID {
		cell.Editing = true
	}

	switch {
	case col.Type == contact.TypeSelect:
		cell.Kind = KindBadge
		cell.Display = raw
		cell.Options = contact.EnumValues(col.ID)
	case col.ID == contact.FieldValeurEstimee:
		cell.Kind = KindCurrency
		cell.Display = contact.FormatCurrency(c.EstimatedValue)
	case col.Type == contact.TypeNumber:
		cell.Kind = KindNumber
		cell.Display = raw
		if raw == "" {
			cell.Display = contact.PlaceholderEmpty
		}
	case col.Type == contact.TypeDate:
		cell.Kind = KindDate
		if v, ok := c.Get(col.ID); ok {
			if t, ok := v.(time.Time); ok {
				cell.Display = contact.FormatDate(t)
			}
		}
	case col.ID == contact.FieldTelephone:
		cell.Kind = KindPhone
		cell.Display = raw
		cell.Dial = raw != ""
	case col.Type == contact.TypeEmail:
		cell.Kind = KindEmail
		cell.Display = raw
	default:
		cell.Kind = KindText
		cell.Display = raw
		if raw == "" {
			cell.Display = contact.PlaceholderEmpty
		}
	}
	return cell
}

// BeginEdit opens edit mode for one cell. Any previously open edit is
// abandoned: its pending text is discarded, nothing is saved.
func (e *Engine) BeginEdit(recordID, columnID, current string) {
	e.edit = &editState{recordID: recordID, columnID: columnID, pending: current}
}

// SetPending replaces the pending text of the open edit, if any.
func (e *Engine) SetPending(text string) {
	if e.edit != nil {
		e.edit.pending = text
	}
}

// ActiveEdit reports the open cell, if any.
func (e *Engine) ActiveEdit() (recordID, columnID string, ok bool) {
	if e.edit == nil {
		return "", "", false
	}
	return e.edit.recordID, e.edit.columnID, true
}

// CommitEdit submits the pending text through the update function.
// Numeric columns coerce with ParseNumber, so unparseable input is
// stored as 0. Edit mode closes whether or not the update succeeds;
// there is no rollback path, the caller refetches either way.
func (e *Engine) CommitEdit() error {
	if e.edit == nil {
		return fmt.Errorf("no cell is being edited")
	}
	st := *e.edit
	e.edit = nil

	if e.update == nil {
		return fmt.Errorf("no update function configured")
	}

	var value any = st.pending
	if col, ok := e.columns.Get(st.columnID); ok && col.Type == contact.TypeNumber {
		value = contact.ParseNumber(st.pending)
	}
	if err := e.update(st.recordID, map[string]any{st.columnID: value}); err != nil {
		return fmt.Errorf("update %s.%s: %w", st.recordID, st.columnID, err)
	}
	return nil
}

// CancelEdit discards the open edit without an update call.
func (e *Engine) CancelEdit() {
	e.edit = nil
}

// Choose commits an enumerated-column value immediately, without an
// intermediate edit buffer. Values outside the column's enumeration
// are rejected. Any open edit on another cell is abandoned.
func (e *Engine) Choose(recordID, columnID, value string) error {
	e.edit = nil

	allowed := contact.EnumValues(columnID)
	if allowed == nil {
		return fmt.Errorf("column %s is not enumerated", columnID)
	}
	valid := false
	for _, v := range allowed {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid value %q for %s", value, columnID)
	}
	if e.update == nil {
		return fmt.Errorf("no update function configured")
	}
	if err := e.update(recordID, map[string]any{columnID: value}); err != nil {
		return fmt.Errorf("update %s.%s: %w", recordID, columnID, err)
	}
	return nil
}
