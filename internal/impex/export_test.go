package impex

import (
	"context"
	"testing"
	"time"

	"crmgrid/internal/contact"
	"crmgrid/internal/tabular"
)

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("csv"); err != nil || f != FormatCSV {
		t.Errorf("ParseFormat(csv) = %v, %v", f, err)
	}
	if f, err := ParseFormat("xlsx"); err != nil || f != FormatXLSX {
		t.Errorf("ParseFormat(xlsx) = %v, %v", f, err)
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for pdf")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC)
	if got := Filename(FormatCSV, now); got != "contacts-2026-09-01.csv" {
		t.Errorf("Filename(csv) = %q", got)
	}
	if got := Filename(FormatXLSX, now); got != "contacts-2026-09-01.xlsx" {
		t.Errorf("Filename(xlsx) = %q", got)
	}
}

func TestExport_CanonicalColumnOrder(t *testing.T) {
	contacts := []*contact.Contact{
		{FirstName: "Anne", LastName: "Durand", Company: "Acme",
			Email: "anne@acme.fr", Source: "Salon", Status: "Client"},
	}

	data, err := Export(contacts, FormatCSV)
	if err != nil {
		t.Fatalf("Export error = %v", err)
	}

	table, err := tabular.ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV error = %v", err)
	}
	if len(table.Headers) != len(contact.ExportFields) {
		t.Fatalf("Headers = %v", table.Headers)
	}
	for i, f := range contact.ExportFields {
		if table.Headers[i] != f {
			t.Errorf("header %d = %q, want %q", i, table.Headers[i], f)
		}
	}
	row := table.Rows[0]
	if row.Get("societe") != "Acme" || row.Get("source") != "Salon" || row.Get("statut") != "Client" {
		t.Errorf("row = %v", row)
	}
}

// Exported CSV re-imports cleanly under the identity mapping.
func TestExport_ImportRoundTrip(t *testing.T) {
	contacts := []*contact.Contact{
		{FirstName: "Anne", LastName: "Durand", Company: "Acme",
			Email: "anne@acme.fr", Phone: "0601020304",
			Status: "Client", Source: "Salon", Temperature: "Chaud"},
		{LastName: "Martin", Email: "paul@globex.fr"},
	}

	data, err := Export(contacts, FormatCSV)
	if err != nil {
		t.Fatalf("Export error = %v", err)
	}

	s := NewSession()
	if err := s.Load("contacts-2026-09-01.csv", data); err != nil {
		t.Fatalf("Load error = %v", err)
	}

	// Identity mapping: every import field feeds from its own header
	m := make(Mapping)
	for _, f := range contact.ImportFields {
		m[f] = f
	}
	if err := s.SetMapping(m); err != nil {
		t.Fatalf("SetMapping error = %v", err)
	}

	ins := &fakeInserter{}
	result, err := s.Confirm(context.Background(), Identity{UserID: "u1", OrgID: "org1"}, ins)
	if err != nil {
		t.Fatalf("Confirm error = %v", err)
	}
	if result.Admitted != 2 {
		t.Fatalf("Admitted = %d, want 2", result.Admitted)
	}

	got := ins.batches[0]
	if got[0].FirstName != "Anne" || got[0].Company != "Acme" || got[0].Status != "Client" {
		t.Errorf("row 0 = %+v", got[0])
	}
	if got[1].LastName != "Martin" || got[1].Email != "paul@globex.fr" {
		t.Errorf("row 1 = %+v", got[1])
	}
}

func TestExport_XLSX(t *testing.T) {
	contacts := []*contact.Contact{{LastName: "Durand", Email: "d@a.fr"}}

	data, err := Export(contacts, FormatXLSX)
	if err != nil {
		t.Fatalf("Export error = %v", err)
	}

	table, err := tabular.ParseXLSX(data)
	if err != nil {
		t.Fatalf("ParseXLSX error = %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0].Get("nom") != "Durand" {
		t.Errorf("table = %+v", table)
	}
}
