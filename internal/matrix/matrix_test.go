package matrix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tollcalc/internal/table"
)

func carTable() *table.Table {
	tbl := table.New("dataset-1", "id_1", "id_2", "route", "car")
	tbl.Append("801", "803", "11", "8")
	tbl.Append("801", "802", "11", "2")
	tbl.Append("10", "802", "12", "12.5")
	tbl.Append("10", "803", "12", "")
	return tbl
}

func TestPivot(t *testing.T) {
	m, err := Pivot(carTable(), "id_1", "id_2", "car")
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "801"}, m.Rows())
	assert.Equal(t, []string{"802", "803"}, m.Cols())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("801", "803")
	assert.True(t, ok)
	assert.Equal(t, 8.0, v)

	_, ok = m.Get("10", "803")
	assert.False(t, ok, "empty cell stays unpopulated")
}

func TestPivot_MissingColumn(t *testing.T) {
	m, err := Pivot(carTable(), "id_1", "id_2", "bus")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Rows())
}

func TestPivot_Duplicate(t *testing.T) {
	tbl := carTable()
	tbl.Append("801", "803", "11", "4")

	_, err := Pivot(tbl, "id_1", "id_2", "car")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateEntry))
}

func TestPivot_DuplicateWithNonNumericValue(t *testing.T) {
	tests := []struct {
		name         string
		first, again string
	}{
		{"numeric then text", "5", "x"},
		{"text then numeric", "x", "5"},
		{"blank then numeric", "", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table.New("pairs", "id_1", "id_2", "car")
			tbl.Append("1", "2", tt.first)
			tbl.Append("1", "2", tt.again)

			_, err := Pivot(tbl, "id_1", "id_2", "car")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDuplicateEntry))
		})
	}
}

func TestTransform(t *testing.T) {
	m, err := Pivot(carTable(), "id_1", "id_2", "car")
	require.NoError(t, err)

	out := Transform(m, DoubleAbove(5))

	tests := []struct {
		row, col string
		want     float64
	}{
		{"801", "803", 16},
		{"801", "802", 2},
		{"10", "802", 25},
	}
	for _, tt := range tests {
		got, ok := out.Get(tt.row, tt.col)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "(%s, %s)", tt.row, tt.col)
	}

	before, _ := m.Get("801", "803")
	assert.Equal(t, 8.0, before, "source matrix must not change")
	assert.Equal(t, m.Rows(), out.Rows())
}

func TestDoubleAboveBoundary(t *testing.T) {
	rule := DoubleAbove(5)
	assert.Equal(t, 5.0, rule(5))
	assert.Equal(t, 10.2, rule(5.1))
	assert.Equal(t, -7.0, rule(-7))
}

func TestUnpivot(t *testing.T) {
	m := New()
	m.Set("A", "A", 0)
	m.Set("A", "B", 9.7)
	m.Set("B", "A", 9.7)
	m.Set("B", "B", 0)

	out := Unpivot(m, "id_start", "id_end", "distance")

	assert.Equal(t, []string{"id_start", "id_end", "distance"}, out.Columns)
	require.Equal(t, 4, out.Len())
	assert.Equal(t, table.Row{"id_start": "A", "id_end": "B", "distance": "9.7"}, out.Rows[1])
	assert.Equal(t, "0", out.Value(3, "distance"))
}

func TestTableRoundTrip(t *testing.T) {
	m, err := Pivot(carTable(), "id_1", "id_2", "car")
	require.NoError(t, err)

	wide := m.Table("id_1")
	assert.Equal(t, []string{"id_1", "802", "803"}, wide.Columns)
	assert.Equal(t, "", wide.Value(0, "803"))

	back := FromTable(wide)
	assert.Equal(t, m.Rows(), back.Rows())
	assert.Equal(t, m.Cols(), back.Cols())
	assert.Equal(t, m.Len(), back.Len())
}

func TestSortLabelsMixed(t *testing.T) {
	m := New()
	m.Set("b", "2", 1)
	m.Set("a", "10", 1)
	m.SortLabels()

	assert.Equal(t, []string{"a", "b"}, m.Rows())
	assert.Equal(t, []string{"2", "10"}, m.Cols())
}
