// Package table holds the in-memory tabular representation shared by every
// transformation: named string columns, positional rows, and typed accessors.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Row maps a column name to its raw cell text
type Row map[string]string

// Table is an ordered set of columns with rows addressed by position.
// Row position plays the role of the row index.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns
func New(name string, columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row from positional values; missing trailing values are left empty
func (t *Table) Append(values ...string) {
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(values) {
			row[col] = values[i]
		} else {
			row[col] = ""
		}
	}
	t.Rows = append(t.Rows, row)
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// HasColumns reports whether every named column exists
func (t *Table) HasColumns(names ...string) bool {
	for _, name := range names {
		if !t.HasColumn(name) {
			return false
		}
	}
	return true
}

// Require returns a *SchemaError naming every missing column, or nil
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Table: t.Name, Missing: missing}
	}
	return nil
}

// Value returns the raw cell text at row i
func (t *Table) Value(i int, col string) string {
	return t.Rows[i][col]
}

// Float parses the cell at row i as a float.
// Empty, non-numeric and NaN cells report false.
func (t *Table) Float(i int, col string) (float64, bool) {
	return ParseFloat(t.Rows[i][col])
}

// ParseFloat parses a numeric cell the way Float does
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FormatFloat renders a float cell with the shortest exact representation
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Clone returns a deep copy; the receiver is never shared with the result
func (t *Table) Clone() *Table {
	out := New(t.Name, t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// WithColumn returns a copy of t with column name set from fn.
// An existing column of the same name is replaced in place.
func (t *Table) WithColumn(name string, fn func(i int, row Row) string) *Table {
	out := t.Clone()
	if !out.HasColumn(name) {
		out.Columns = append(out.Columns, name)
	}
	for i, row := range out.Rows {
		row[name] = fn(i, t.Rows[i])
	}
	return out
}

// Select returns a copy holding only the named columns that exist in t
func (t *Table) Select(names ...string) *Table {
	var cols []string
	for _, name := range names {
		if t.HasColumn(name) {
			cols = append(cols, name)
		}
	}
	out := New(t.Name, cols...)
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		cp := make(Row, len(cols))
		for _, col := range cols {
			cp[col] = row[col]
		}
		out.Rows[i] = cp
	}
	return out
}
