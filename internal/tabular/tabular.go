// Package tabular is the file-format boundary of the import/export
// pipeline. It parses user-supplied CSV and XLSX files into a generic
// header-keyed row structure and serializes such structures back to
// bytes. Nothing here knows about contacts; the import mapping step is
// the only bridge between raw rows and typed records.
package tabular

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Row is one unvalidated data row, keyed by source column header.
// Keys absent from the map mean the source row was shorter than the
// header row.
type Row map[string]string

// Table is a parsed tabular file: the header row plus every data row.
// Headers preserves the source column order; Rows preserves the source
// row order.
type Table struct {
	Headers []string
	Rows    []Row
}

// Get returns the raw value for a header, "" when the row has no
// value for it.
func (r Row) Get(header string) string {
	return r[header]
}

// Parse dispatches on the file extension. Unrecognized extensions and
// unreadable content return an error so the caller can stay on the
// upload step instead of proceeding with garbage.
func Parse(filename string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(data)
	case ".xlsx":
		return ParseXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(filename))
	}
}
