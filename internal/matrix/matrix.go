// Package matrix reshapes flat tables into labelled 2-D grids and back.
package matrix

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/tollcalc/internal/table"
)

// ErrDuplicateEntry is returned when a pivot would place two values in one cell
var ErrDuplicateEntry = errors.New("duplicate (row, column) entry")

type cell struct {
	row, col string
}

// Matrix is a sparse labelled grid. Row and column labels keep their order;
// cells that were never set are absent rather than zero.
type Matrix struct {
	rows   []string
	cols   []string
	rowSet map[string]bool
	colSet map[string]bool
	values map[cell]float64
}

// New creates an empty matrix
func New() *Matrix {
	return &Matrix{
		rowSet: make(map[string]bool),
		colSet: make(map[string]bool),
		values: make(map[cell]float64),
	}
}

// Rows returns row labels in order
func (m *Matrix) Rows() []string {
	return append([]string(nil), m.rows...)
}

// Cols returns column labels in order
func (m *Matrix) Cols() []string {
	return append([]string(nil), m.cols...)
}

// Len returns the number of populated cells
func (m *Matrix) Len() int {
	return len(m.values)
}

// Get returns the cell value and whether it is populated
func (m *Matrix) Get(row, col string) (float64, bool) {
	v, ok := m.values[cell{row, col}]
	return v, ok
}

// Set stores a value, registering unseen labels at the end
func (m *Matrix) Set(row, col string, v float64) {
	m.addRow(row)
	m.addCol(col)
	m.values[cell{row, col}] = v
}

func (m *Matrix) addRow(label string) {
	if !m.rowSet[label] {
		m.rowSet[label] = true
		m.rows = append(m.rows, label)
	}
}

func (m *Matrix) addCol(label string) {
	if !m.colSet[label] {
		m.colSet[label] = true
		m.cols = append(m.cols, label)
	}
}

// SortLabels orders rows and columns numerically when every label is a
// number, lexically otherwise
func (m *Matrix) SortLabels() {
	sortLabels(m.rows)
	sortLabels(m.cols)
}

func sortLabels(labels []string) {
	numeric := true
	nums := make(map[string]float64, len(labels))
	for _, l := range labels {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[l] = v
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if numeric {
			return nums[labels[i]] < nums[labels[j]]
		}
		return labels[i] < labels[j]
	})
}

// Pivot spreads valueKey into a grid indexed by rowKey and colKey.
// A missing column yields an empty matrix; a repeated (row, col) pair is an error.
func Pivot(t *table.Table, rowKey, colKey, valueKey string) (*Matrix, error) {
	m := New()
	if !t.HasColumns(rowKey, colKey, valueKey) {
		return m, nil
	}

	// Pairs are tracked even when the value is blank or non-numeric.
	seen := make(map[cell]bool, len(t.Rows))
	for i, row := range t.Rows {
		r := strings.TrimSpace(row[rowKey])
		c := strings.TrimSpace(row[colKey])
		if seen[cell{r, c}] {
			return nil, fmt.Errorf("pivot %s on (%s, %s) = (%s, %s): %w",
				valueKey, rowKey, colKey, r, c, ErrDuplicateEntry)
		}
		seen[cell{r, c}] = true
		m.addRow(r)
		m.addCol(c)

		if v, ok := t.Float(i, valueKey); ok {
			m.values[cell{r, c}] = v
		}
	}

	m.SortLabels()
	return m, nil
}

// Transform applies rule to every populated cell and returns a new matrix
func Transform(m *Matrix, rule func(float64) float64) *Matrix {
	out := New()
	for _, r := range m.rows {
		out.addRow(r)
	}
	for _, c := range m.cols {
		out.addCol(c)
	}
	for k, v := range m.values {
		out.values[k] = rule(v)
	}
	return out
}

// DoubleAbove returns a rule doubling values strictly greater than threshold
func DoubleAbove(threshold float64) func(float64) float64 {
	return func(v float64) float64 {
		if v > threshold {
			return v * 2
		}
		return v
	}
}

// Unpivot expands the matrix into long format, row-major, skipping empty cells
func Unpivot(m *Matrix, rowName, colName, valueName string) *table.Table {
	out := table.New("unpivot", rowName, colName, valueName)
	for _, r := range m.rows {
		for _, c := range m.cols {
			v, ok := m.values[cell{r, c}]
			if !ok {
				continue
			}
			out.Append(r, c, table.FormatFloat(v))
		}
	}
	return out
}

// Table renders the matrix as a wide table whose first column holds row labels
func (m *Matrix) Table(indexName string) *table.Table {
	out := table.New("matrix", append([]string{indexName}, m.cols...)...)
	for _, r := range m.rows {
		values := make([]string, 0, len(m.cols)+1)
		values = append(values, r)
		for _, c := range m.cols {
			if v, ok := m.values[cell{r, c}]; ok {
				values = append(values, table.FormatFloat(v))
			} else {
				values = append(values, "")
			}
		}
		out.Append(values...)
	}
	return out
}

// FromTable is the inverse of Table: the first column holds row labels,
// every other column a matrix column. Empty cells stay unpopulated.
func FromTable(t *table.Table) *Matrix {
	m := New()
	if len(t.Columns) == 0 {
		return m
	}
	index := t.Columns[0]
	cols := t.Columns[1:]
	for _, c := range cols {
		m.addCol(c)
	}
	for i, row := range t.Rows {
		r := strings.TrimSpace(row[index])
		m.addRow(r)
		for _, c := range cols {
			if v, ok := t.Float(i, c); ok {
				m.values[cell{r, c}] = v
			}
		}
	}
	return m
}
