package tabular

import (
	"strings"
	"testing"
)

// ============================================================================
// CSV Tests
// ============================================================================

func TestParseCSV_Basic(t *testing.T) {
	data := []byte("nom,email\nDurand,durand@acme.fr\nMartin,martin@acme.fr\n")

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV error = %v", err)
	}

	if len(table.Headers) != 2 || table.Headers[0] != "nom" || table.Headers[1] != "email" {
		t.Errorf("Headers = %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if got := table.Rows[0].Get("nom"); got != "Durand" {
		t.Errorf("row 0 nom = %q, want %q", got, "Durand")
	}
	if got := table.Rows[1].Get("email"); got != "martin@acme.fr" {
		t.Errorf("row 1 email = %q", got)
	}
}

func TestParseCSV_TrimsHeaders(t *testing.T) {
	table, err := ParseCSV([]byte(" nom , email \nDurand,d@a.fr\n"))
	if err != nil {
		t.Fatalf("ParseCSV error = %v", err)
	}
	if table.Headers[0] != "nom" || table.Headers[1] != "email" {
		t.Errorf("Headers = %v, want trimmed", table.Headers)
	}
}

func TestParseCSV_ShortRows(t *testing.T) {
	table, err := ParseCSV([]byte("nom,email,telephone\nDurand,d@a.fr\n"))
	if err != nil {
		t.Fatalf("ParseCSV error = %v", err)
	}
	row := table.Rows[0]
	if row.Get("nom") != "Durand" || row.Get("email") != "d@a.fr" {
		t.Errorf("row = %v", row)
	}
	if row.Get("telephone") != "" {
		t.Errorf("missing cell should read empty, got %q", row.Get("telephone"))
	}
}

func TestParseCSV_Degenerate(t *testing.T) {
	// Empty input
	table, err := ParseCSV(nil)
	if err != nil {
		t.Fatalf("ParseCSV(nil) error = %v", err)
	}
	if len(table.Headers) != 0 || len(table.Rows) != 0 {
		t.Errorf("expected empty table, got %+v", table)
	}

	// Header-only input
	table, err = ParseCSV([]byte("nom,email\n"))
	if err != nil {
		t.Fatalf("ParseCSV(header only) error = %v", err)
	}
	if len(table.Headers) != 2 || len(table.Rows) != 0 {
		t.Errorf("expected headers without rows, got %+v", table)
	}
}

func TestParseCSV_InvalidUTF8(t *testing.T) {
	// 0xE9 is 'é' in Windows-1252; invalid as a standalone UTF-8 byte
	data := []byte("nom\nDur\xE9and\n")

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV error = %v", err)
	}
	got := table.Rows[0].Get("nom")
	if !strings.Contains(got, "�") {
		t.Errorf("expected replacement rune in %q", got)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	src := &Table{
		Headers: []string{"nom", "notes"},
		Rows: []Row{
			{"nom": "Durand", "notes": "ligne 1\nligne 2"},
			{"nom": "Martin, Paul", "notes": `dit "bonjour"`},
		},
	}

	data, err := WriteCSV(src)
	if err != nil {
		t.Fatalf("WriteCSV error = %v", err)
	}

	got, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV error = %v", err)
	}
	if len(got.Rows) != len(src.Rows) {
		t.Fatalf("round trip lost rows: %d != %d", len(got.Rows), len(src.Rows))
	}
	for i, row := range src.Rows {
		for _, h := range src.Headers {
			if got.Rows[i].Get(h) != row.Get(h) {
				t.Errorf("row %d %s = %q, want %q", i, h, got.Rows[i].Get(h), row.Get(h))
			}
		}
	}
}

// ============================================================================
// XLSX Tests
// ============================================================================

func TestXLSX_RoundTrip(t *testing.T) {
	src := &Table{
		Headers: []string{"nom", "societe", "email"},
		Rows: []Row{
			{"nom": "Durand", "societe": "Acme", "email": "d@acme.fr"},
			{"nom": "Martin", "societe": "Globex", "email": "m@globex.fr"},
		},
	}

	data, err := WriteXLSX(src)
	if err != nil {
		t.Fatalf("WriteXLSX error = %v", err)
	}

	got, err := ParseXLSX(data)
	if err != nil {
		t.Fatalf("ParseXLSX error = %v", err)
	}
	if len(got.Headers) != 3 {
		t.Fatalf("Headers = %v", got.Headers)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
	for i, row := range src.Rows {
		for _, h := range src.Headers {
			if got.Rows[i].Get(h) != row.Get(h) {
				t.Errorf("row %d %s = %q, want %q", i, h, got.Rows[i].Get(h), row.Get(h))
			}
		}
	}
}

func TestParseXLSX_Garbage(t *testing.T) {
	if _, err := ParseXLSX([]byte("not a zip archive")); err == nil {
		t.Error("expected error for non-xlsx bytes")
	}
}

// ============================================================================
// Dispatch Tests
// ============================================================================

func TestParse_Dispatch(t *testing.T) {
	csvData := []byte("nom\nDurand\n")

	table, err := Parse("contacts.csv", csvData)
	if err != nil {
		t.Fatalf("Parse(.csv) error = %v", err)
	}
	if len(table.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(table.Rows))
	}

	// Extension match is case-insensitive
	if _, err := Parse("CONTACTS.CSV", csvData); err != nil {
		t.Errorf("Parse(.CSV) error = %v", err)
	}

	if _, err := Parse("contacts.pdf", csvData); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := Parse("contacts", csvData); err == nil {
		t.Error("expected error for missing extension")
	}
}
