package contact

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"42.5", 42.5},
		{"-3.25", -3.25},
		{" 10 ", 10},
		{"", 0},
		{"abc", 0},
		{"12abc", 0},
	}

	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{42.5, "42.5"},
		{1000, "1000"},
		{0.5, "0.5"},
		{-7, "-7"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, PlaceholderEmpty},
		{500, "500 €"},
		{1500, "1 500 €"},
		{1234567.5, "1 234 567,5 €"},
		{-12000, "-12 000 €"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Time{}, ""},
		{time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), "2 janv. 2026"},
		{time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), "31 août 2025"},
		{time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), "25 déc. 2024"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStringify(t *testing.T) {
	c := &Contact{
		LastName:       "Durand",
		Email:          "durand@acme.fr",
		EstimatedValue: 42.5,
		CloseDate:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		field string
		want  string
	}{
		{FieldNom, "Durand"},
		{FieldEmail, "durand@acme.fr"},
		{FieldValeurEstimee, "42.5"},
		{FieldProbabilite, ""}, // zero number projects empty
		{FieldDateCloture, "2026-03-15"},
		{FieldDerniereInterac, ""}, // zero date projects empty
		{FieldSociete, ""},
		{"custom_123", ""}, // unknown field projects empty
	}

	for _, tt := range tests {
		if got := Stringify(c, tt.field); got != tt.want {
			t.Errorf("Stringify(%s) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestCatalogAndFieldOrders(t *testing.T) {
	cat := Catalog()
	if len(cat) != 15 {
		t.Fatalf("catalog has %d fields, want 15", len(cat))
	}
	if cat[0].ID != FieldPrenom || cat[1].ID != FieldNom {
		t.Errorf("catalog does not start with prenom, nom: %q, %q", cat[0].ID, cat[1].ID)
	}

	if len(ImportFields) != 11 {
		t.Errorf("ImportFields has %d entries, want 11", len(ImportFields))
	}
	if len(ExportFields) != 11 {
		t.Errorf("ExportFields has %d entries, want 11", len(ExportFields))
	}

	// Export places source before statut
	srcIdx, stIdx := -1, -1
	for i, f := range ExportFields {
		switch f {
		case FieldSource:
			srcIdx = i
		case FieldStatut:
			stIdx = i
		}
	}
	if srcIdx == -1 || stIdx == -1 || srcIdx > stIdx {
		t.Errorf("ExportFields order wrong: source at %d, statut at %d", srcIdx, stIdx)
	}
}

func TestEnumValues(t *testing.T) {
	if got := EnumValues(FieldStatut); len(got) != len(Statuses) {
		t.Errorf("EnumValues(statut) = %v", got)
	}
	if got := EnumValues(FieldEmail); got != nil {
		t.Errorf("EnumValues(email) = %v, want nil", got)
	}
}
