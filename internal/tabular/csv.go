package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseCSV parses comma-separated data with the first row as headers.
// Input is sanitized to valid UTF-8 first; ragged rows are tolerated
// (short rows leave trailing headers unset). A file with only a header
// row, or nothing at all, yields an empty table rather than an error.
func ParseCSV(data []byte) (*Table, error) {
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers}
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteCSV serializes a table as UTF-8 CSV with a header row, quoting
// per encoding/csv convention.
func WriteCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			rec[i] = row[h]
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement
// rune. Spreadsheet exports from older tools frequently arrive in
// Windows-1252.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}
	return buf.Bytes()
}
