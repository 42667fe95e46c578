package grid

import (
	"encoding/json"
	"testing"

	"crmgrid/internal/contact"
)

// testColumnSet builds a default set with a deterministic id stamp.
func testColumnSet(stamp int64) *ColumnSet {
	cs := DefaultColumns()
	cs.customID = func() int64 { return stamp }
	return cs
}

func TestDefaultColumns_MatchCatalog(t *testing.T) {
	cs := DefaultColumns()
	cols := cs.Columns()
	defs := contact.Catalog()

	if len(cols) != len(defs) {
		t.Fatalf("expected %d columns, got %d", len(defs), len(cols))
	}
	for i, d := range defs {
		if cols[i].ID != d.ID {
			t.Errorf("column %d = %q, want %q", i, cols[i].ID, d.ID)
		}
		if cols[i].Visible != d.Visible || cols[i].Width != d.Width {
			t.Errorf("column %s geometry = (%v, %d), want (%v, %d)",
				d.ID, cols[i].Visible, cols[i].Width, d.Visible, d.Width)
		}
	}
}

func TestToggleVisibility(t *testing.T) {
	cs := DefaultColumns()

	col, _ := cs.Get("prenom")
	was := col.Visible

	cs.ToggleVisibility("prenom")
	col, _ = cs.Get("prenom")
	if col.Visible == was {
		t.Error("ToggleVisibility did not flip the flag")
	}

	// Unknown id is a no-op
	cs.ToggleVisibility("nonexistent")
}

func TestReorder(t *testing.T) {
	cs := DefaultColumns()
	before := cs.Columns()

	if err := cs.Reorder(0, 2); err != nil {
		t.Fatalf("Reorder error = %v", err)
	}
	after := cs.Columns()

	if after[2].ID != before[0].ID {
		t.Errorf("moved column is at %q, want position 2", after[2].ID)
	}
	if after[0].ID != before[1].ID || after[1].ID != before[2].ID {
		t.Errorf("remaining columns did not shift: %q, %q", after[0].ID, after[1].ID)
	}
	if len(after) != len(before) {
		t.Errorf("reorder changed column count: %d != %d", len(after), len(before))
	}

	if err := cs.Reorder(0, len(before)); err == nil {
		t.Error("expected error for out-of-range target")
	}
	if err := cs.Reorder(-1, 0); err == nil {
		t.Error("expected error for negative source")
	}
}

func TestResize_ClampsToMinimum(t *testing.T) {
	cs := DefaultColumns()

	cs.Resize("nom", 400)
	if col, _ := cs.Get("nom"); col.Width != 400 {
		t.Errorf("Width = %d, want 400", col.Width)
	}

	cs.Resize("nom", 10)
	if col, _ := cs.Get("nom"); col.Width != MinColumnWidth {
		t.Errorf("Width = %d, want clamped to %d", col.Width, MinColumnWidth)
	}

	cs.Resize("nom", MinColumnWidth)
	if col, _ := cs.Get("nom"); col.Width != MinColumnWidth {
		t.Errorf("Width = %d, want %d", col.Width, MinColumnWidth)
	}
}

// ============================================================================
// Custom Column Tests
// ============================================================================

func TestAddCustom(t *testing.T) {
	cs := testColumnSet(1736000000000)

	col, err := cs.AddCustom("Budget", contact.TypeNumber)
	if err != nil {
		t.Fatalf("AddCustom error = %v", err)
	}

	if col.ID != "custom_1736000000000" {
		t.Errorf("ID = %q, want custom_1736000000000", col.ID)
	}
	if !col.Visible || !col.Custom || col.Width != 150 {
		t.Errorf("new custom column = %+v", col)
	}

	cols := cs.Columns()
	if cols[len(cols)-1].ID != col.ID {
		t.Error("custom column should append at the end")
	}
}

func TestAddCustom_IDCollision(t *testing.T) {
	cs := testColumnSet(42)

	first, _ := cs.AddCustom("A", contact.TypeText)
	second, err := cs.AddCustom("B", contact.TypeText)
	if err != nil {
		t.Fatalf("AddCustom error = %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("colliding stamp produced duplicate id %q", first.ID)
	}
	if second.ID != "custom_43" {
		t.Errorf("second id = %q, want custom_43", second.ID)
	}
}

func TestAddCustom_Rejections(t *testing.T) {
	cs := testColumnSet(1)

	if _, err := cs.AddCustom("", contact.TypeText); err == nil {
		t.Error("expected error for blank label")
	}
	if _, err := cs.AddCustom("Mail", contact.TypeEmail); err == nil {
		t.Error("expected error for email-typed custom column")
	}
	if _, err := cs.AddCustom("X", contact.FieldType("blob")); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestRemoveCustom(t *testing.T) {
	cs := testColumnSet(7)
	col, _ := cs.AddCustom("Budget", contact.TypeNumber)

	if !cs.RemoveCustom(col.ID) {
		t.Error("RemoveCustom should succeed for a custom column")
	}
	if _, ok := cs.Get(col.ID); ok {
		t.Error("removed column still present")
	}

	// Built-ins are never removable
	if cs.RemoveCustom("nom") {
		t.Error("RemoveCustom must refuse built-in columns")
	}
	if _, ok := cs.Get("nom"); !ok {
		t.Error("built-in column disappeared")
	}

	if cs.RemoveCustom("custom_9999") {
		t.Error("RemoveCustom should report false for unknown ids")
	}
}

// ============================================================================
// Persistence Tests
// ============================================================================

func TestColumnSet_JSONRoundTrip(t *testing.T) {
	cs := testColumnSet(100)
	cs.ToggleVisibility("valeur_estimee")
	cs.Resize("nom", 320)
	cs.Reorder(0, 3)
	cs.AddCustom("Budget", contact.TypeNumber)

	data, err := json.Marshal(cs)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}

	restored := &ColumnSet{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	orig, got := cs.Columns(), restored.Columns()
	if len(got) != len(orig) {
		t.Fatalf("restored %d columns, want %d", len(got), len(orig))
	}
	for i := range orig {
		if got[i] != orig[i] {
			t.Errorf("column %d = %+v, want %+v", i, got[i], orig[i])
		}
	}
}

func TestColumnSet_Validate(t *testing.T) {
	cs := testColumnSet(100)
	cs.ToggleVisibility("valeur_estimee")
	cs.AddCustom("Budget", contact.TypeNumber)
	if err := cs.Validate(); err != nil {
		t.Errorf("Validate error = %v, want nil", err)
	}
}

func TestColumnSet_ValidateRejectsDuplicateIDs(t *testing.T) {
	cols := DefaultColumns().Columns()
	cols = append(cols, cols[0])

	if err := NewColumnSet(cols).Validate(); err == nil {
		t.Error("expected error for a duplicate column id")
	}
}

func TestColumnSet_ValidateRejectsDroppedBuiltins(t *testing.T) {
	// Built-in columns can be hidden but a layout without them is
	// never accepted for persistence.
	cols := DefaultColumns().Columns()
	cols = cols[1:]

	if err := NewColumnSet(cols).Validate(); err == nil {
		t.Error("expected error for a layout missing a built-in column")
	}
}

func TestColumnSet_UnmarshalEmptyRestoresDefaults(t *testing.T) {
	restored := &ColumnSet{}
	if err := json.Unmarshal([]byte("[]"), restored); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if len(restored.Columns()) != len(contact.Catalog()) {
		t.Errorf("empty layout should restore catalog defaults, got %d columns",
			len(restored.Columns()))
	}
}
