// Package grid implements the contact table engine: the configurable
// column set, the single-cell edit state machine, per-column substring
// filters and the row/cell view model. It performs no I/O of its own;
// updates and persistence go through caller-supplied functions.
package grid

import (
	"encoding/json"
	"fmt"
	"time"

	"crmgrid/internal/contact"
)

// MinColumnWidth is the smallest width a column can be resized to.
const MinColumnWidth = 100

// StorageKey is the fixed key the column layout is persisted under,
// one layout per user.
const StorageKey = "contacts-columns"

// Column describes one displayable, optionally editable facet of a
// contact in the grid. Order within a ColumnSet is display order.
type Column struct {
	ID      string            `json:"id"`
	Label   string            `json:"label"`
	Visible bool              `json:"visible"`
	Width   int               `json:"width"`
	Type    contact.FieldType `json:"type"`
	Custom  bool              `json:"custom,omitempty"`
}

// ColumnSet is the ordered, user-configurable column sequence. Built-in
// columns come from the field catalog and can be hidden but never
// removed; custom columns can be added and removed freely.
type ColumnSet struct {
	cols []Column

	// customID produces the millisecond stamp used to mint custom
	// column ids. Overridable in tests.
	customID func() int64
}

// DefaultColumns builds the seed column set from the field catalog.
func DefaultColumns() *ColumnSet {
	defs := contact.Catalog()
	cols := make([]Column, len(defs))
	for i, d := range defs {
		cols[i] = Column{
			ID:      d.ID,
			Label:   d.Label,
			Visible: d.Visible,
			Width:   d.Width,
			Type:    d.Type,
		}
	}
	return &ColumnSet{cols: cols, customID: func() int64 { return time.Now().UnixMilli() }}
}

// NewColumnSet wraps an explicit column sequence, e.g. one restored
// from persisted preferences.
func NewColumnSet(cols []Column) *ColumnSet {
	cs := &ColumnSet{
		cols:     make([]Column, len(cols)),
		customID: func() int64 { return time.Now().UnixMilli() },
	}
	copy(cs.cols, cols)
	return cs
}

// Columns returns a copy of the full sequence in display order.
func (cs *ColumnSet) Columns() []Column {
	out := make([]Column, len(cs.cols))
	copy(out, cs.cols)
	return out
}

// VisibleColumns returns the visible columns in display order.
func (cs *ColumnSet) VisibleColumns() []Column {
	var out []Column
	for _, c := range cs.cols {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// Get looks a column up by id.
func (cs *ColumnSet) Get(id string) (Column, bool) {
	for _, c := range cs.cols {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// ToggleVisibility flips a column's visibility. Unknown ids are a
// no-op.
func (cs *ColumnSet) ToggleVisibility(id string) {
	for i := range cs.cols {
		if cs.cols[i].ID == id {
			cs.cols[i].Visible = !cs.cols[i].Visible
			return
		}
	}
}

// RenameLabel changes a column's display label. Blank labels are
// ignored.
func (cs *ColumnSet) RenameLabel(id, label string) {
	if label == "" {
		return
	}
	for i := range cs.cols {
		if cs.cols[i].ID == id {
			cs.cols[i].Label = label
			return
		}
	}
}

// Reorder moves the column at from to position to, shifting the rest.
func (cs *ColumnSet) Reorder(from, to int) error {
	if from < 0 || from >= len(cs.cols) || to < 0 || to >= len(cs.cols) {
		return fmt.Errorf("reorder out of range: %d -> %d with %d columns", from, to, len(cs.cols))
	}
	c := cs.cols[from]
	cs.cols = append(cs.cols[:from], cs.cols[from+1:]...)
	cs.cols = append(cs.cols[:to], append([]Column{c}, cs.cols[to:]...)...)
	return nil
}

// Resize sets a column's pixel width, clamped to MinColumnWidth. The
// width is layout state only; persisting it is the caller's choice.
func (cs *ColumnSet) Resize(id string, width int) {
	if width < MinColumnWidth {
		width = MinColumnWidth
	}
	for i := range cs.cols {
		if cs.cols[i].ID == id {
			cs.cols[i].Width = width
			return
		}
	}
}

// AddCustom appends a user-defined column. The id is minted from a
// millisecond stamp and bumped on collision, so it is unique within
// the set by construction. New columns start visible.
func (cs *ColumnSet) AddCustom(label string, typ contact.FieldType) (Column, error) {
	if label == "" {
		return Column{}, fmt.Errorf("custom column needs a label")
	}
	switch typ {
	case contact.TypeText, contact.TypeNumber, contact.TypeDate, contact.TypeSelect:
	default:
		return Column{}, fmt.Errorf("unsupported custom column type %q", typ)
	}

	stamp := cs.customID()
	id := fmt.Sprintf("custom_%d", stamp)
	for {
		if _, exists := cs.Get(id); !exists {
			break
		}
		stamp++
		id = fmt.Sprintf("custom_%d", stamp)
	}

	col := Column{ID: id, Label: label, Visible: true, Width: 150, Type: typ, Custom: true}
	cs.cols = append(cs.cols, col)
	return col, nil
}

// RemoveCustom deletes a custom column. Built-in columns are never
// removable; removing one is a no-op and returns false.
func (cs *ColumnSet) RemoveCustom(id string) bool {
	for i, c := range cs.cols {
		if c.ID == id {
			if !c.Custom {
				return false
			}
			cs.cols = append(cs.cols[:i], cs.cols[i+1:]...)
			return true
		}
	}
	return false
}

// Validate checks that the sequence is a legal layout: ids must be
// unique and every catalog column must still be present. Built-ins
// can be hidden or reordered but never dropped.
func (cs *ColumnSet) Validate() error {
	seen := make(map[string]bool, len(cs.cols))
	for _, c := range cs.cols {
		if seen[c.ID] {
			return fmt.Errorf("duplicate column id %q", c.ID)
		}
		seen[c.ID] = true
	}
	for _, d := range contact.Catalog() {
		if !seen[d.ID] {
			return fmt.Errorf("missing built-in column %q", d.ID)
		}
	}
	return nil
}

// MarshalJSON serializes the ordered sequence for persistence under
// StorageKey.
func (cs *ColumnSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(cs.cols)
}

// UnmarshalJSON restores a persisted sequence. An empty document
// restores the defaults.
func (cs *ColumnSet) UnmarshalJSON(data []byte) error {
	var cols []Column
	if err := json.Unmarshal(data, &cols); err != nil {
		return fmt.Errorf("decode column layout: %w", err)
	}
	if len(cols) == 0 {
		cols = DefaultColumns().cols
	}
	cs.cols = cols
	if cs.customID == nil {
		cs.customID = func() int64 { return time.Now().UnixMilli() }
	}
	return nil
}
