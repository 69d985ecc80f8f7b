// Package vehicles holds the per-column summaries over the vehicle count dataset.
//
// Every function here degrades to an empty result when a column is missing,
// so an empty result can mean either "nothing qualified" or "no such column".
package vehicles

import (
	"sort"
	"strings"

	"github.com/wonny/tollcalc/internal/table"
)

// ColCarType is the derived bucket column added by WithCarType
const ColCarType = "car_type"

// CarType buckets a car count: low up to 15, medium up to 25, high above
func CarType(v float64) string {
	switch {
	case v <= 15:
		return "low"
	case v <= 25:
		return "medium"
	default:
		return "high"
	}
}

// WithCarType returns a copy of t with a car_type column derived from field.
// Rows whose field is not numeric get an empty car_type.
func WithCarType(t *table.Table, field string) *table.Table {
	return t.WithColumn(ColCarType, func(i int, _ table.Row) string {
		v, ok := t.Float(i, field)
		if !ok {
			return ""
		}
		return CarType(v)
	})
}

// CountByCategory counts occurrences of each distinct non-empty value of field
func CountByCategory(t *table.Table, field string) map[string]int {
	counts := make(map[string]int)
	if !t.HasColumn(field) {
		return counts
	}

	for _, row := range t.Rows {
		v := strings.TrimSpace(row[field])
		if v == "" {
			continue
		}
		if f, ok := table.ParseFloat(v); ok {
			v = table.FormatFloat(f)
		}
		counts[v]++
	}
	return counts
}

// Mean returns the average of the numeric cells of field
func Mean(t *table.Table, field string) (float64, bool) {
	var sum float64
	var n int
	for i := range t.Rows {
		if v, ok := t.Float(i, field); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// AboveMeanMultiple returns, in ascending order, the indexes of rows whose
// field value is strictly greater than multiple times the column mean
func AboveMeanMultiple(t *table.Table, field string, multiple float64) []int {
	indexes := []int{}
	if !t.HasColumn(field) {
		return indexes
	}

	mean, ok := Mean(t, field)
	if !ok {
		return indexes
	}

	limit := multiple * mean
	for i := range t.Rows {
		if v, ok := t.Float(i, field); ok && v > limit {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// GroupsAboveAverage returns the sorted groupKey values whose mean valueKey
// is strictly greater than minAvg
func GroupsAboveAverage(t *table.Table, groupKey, valueKey string, minAvg float64) []string {
	groups := []string{}
	if !t.HasColumns(groupKey, valueKey) {
		return groups
	}

	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[string]*acc)
	for i, row := range t.Rows {
		v, ok := t.Float(i, valueKey)
		if !ok {
			continue
		}
		key := strings.TrimSpace(row[groupKey])
		a, exists := sums[key]
		if !exists {
			a = &acc{}
			sums[key] = a
		}
		a.sum += v
		a.n++
	}

	for key, a := range sums {
		if a.sum/float64(a.n) > minAvg {
			groups = append(groups, key)
		}
	}
	sort.Strings(groups)
	return groups
}

// SortedCategories returns the category names of counts, most frequent first
func SortedCategories(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
