// Package export writes tabular stage outputs to spreadsheet and CSV files.
// Exports are write-only artifacts; nothing in the pipeline reads them back.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an export file format.
type Format string

// Supported export formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat parses a format name, defaulting to xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want xlsx or csv)", s)
	}
}

// Table is a flat, column-oriented projection of records.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a row. Short rows are padded, long rows are rejected.
func (t *Table) Append(values ...string) error {
	if len(values) > len(t.Columns) {
		return fmt.Errorf("table %s: row has %d values for %d columns", t.Name, len(values), len(t.Columns))
	}
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the values of the named column, or nil if it does not exist.
func (t *Table) Column(name string) []string {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[idx])
	}
	return out
}

// Write exports the table to dir/<base>.<format> and returns the written path.
func Write(t *Table, dir, base string, format Format) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, base+"."+string(format))
	switch format {
	case FormatCSV:
		return path, WriteCSV(t, path)
	case FormatXLSX:
		return path, WriteXLSX(t, path)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}
