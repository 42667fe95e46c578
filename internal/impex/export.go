package impex

import (
	"fmt"
	"time"

	"crmgrid/internal/contact"
	"crmgrid/internal/tabular"
)

// Format selects the export serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format query parameter.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Filename builds the download name with the current date embedded:
// contacts-2026-09-01.csv.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("contacts-%s.%s", now.Format("2006-01-02"), f)
}

// Export serializes contacts in the fixed canonical column order. The
// caller passes the currently visible set, not the full store. Values
// go through the plain projection (unformatted numbers, ISO dates), so
// an exported CSV re-imports cleanly under the identity mapping.
func Export(contacts []*contact.Contact, f Format) ([]byte, error) {
	t := &tabular.Table{Headers: contact.ExportFields}
	for _, c := range contacts {
		row := make(tabular.Row, len(contact.ExportFields))
		for _, field := range contact.ExportFields {
			row[field] = contact.Stringify(c, field)
		}
		t.Rows = append(t.Rows, row)
	}

	switch f {
	case FormatCSV:
		return tabular.WriteCSV(t)
	case FormatXLSX:
		return tabular.WriteXLSX(t)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}
