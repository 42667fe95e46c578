package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet written by exports.
const SheetName = "Contacts"

// ParseXLSX reads the first sheet of a workbook. The first row is the
// header row; data rows align positionally, so a row shorter than the
// header simply leaves the trailing headers unset.
func ParseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers}
	for _, rec := range rows[1:] {
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

// WriteXLSX serializes a table as a single-sheet workbook, headers in
// the first row, values written positionally.
func WriteXLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		rec := make([]any, len(t.Headers))
		for j, h := range t.Headers {
			rec[j] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &rec); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
