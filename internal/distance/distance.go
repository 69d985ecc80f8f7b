// Package distance answers questions over the unrolled (id_start, id_end,
// distance) table.
package distance

import (
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/tollcalc/internal/table"
)

// Columns of the unrolled distance table
const (
	ColStart    = "id_start"
	ColEnd      = "id_end"
	ColDistance = "distance"
)

// Average is the mean distance of the routes leaving one id_start
type Average struct {
	ID       string
	Distance float64
}

// ReferenceAverage returns the mean distance over every row that starts or
// ends at referenceID
func ReferenceAverage(t *table.Table, referenceID string) (float64, bool) {
	if !t.HasColumns(ColStart, ColEnd, ColDistance) {
		return 0, false
	}

	var sum float64
	var n int
	for i, row := range t.Rows {
		if strings.TrimSpace(row[ColStart]) != referenceID && strings.TrimSpace(row[ColEnd]) != referenceID {
			continue
		}
		if d, ok := t.Float(i, ColDistance); ok {
			sum += d
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// AveragesByStart groups rows by id_start and averages their distance
func AveragesByStart(t *table.Table) []Average {
	if !t.HasColumns(ColStart, ColDistance) {
		return nil
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, row := range t.Rows {
		d, ok := t.Float(i, ColDistance)
		if !ok {
			continue
		}
		id := strings.TrimSpace(row[ColStart])
		sums[id] += d
		counts[id]++
	}

	averages := make([]Average, 0, len(sums))
	for id, sum := range sums {
		averages = append(averages, Average{ID: id, Distance: sum / float64(counts[id])})
	}
	sort.Slice(averages, func(i, j int) bool { return lessID(averages[i].ID, averages[j].ID) })
	return averages
}

// WithinTolerance returns the id_start groups whose average distance lies in
// [ref*(1-tolerance), ref*(1+tolerance)], where ref is the reference id's
// average. An unknown reference or a missing column yields an empty result.
func WithinTolerance(t *table.Table, referenceID string, tolerance float64) []Average {
	matches := []Average{}

	ref, ok := ReferenceAverage(t, referenceID)
	if !ok {
		return matches
	}

	band := tolerance * ref
	if band < 0 {
		band = -band
	}
	lo, hi := ref-band, ref+band

	for _, avg := range AveragesByStart(t) {
		if avg.Distance >= lo && avg.Distance <= hi {
			matches = append(matches, avg)
		}
	}
	return matches
}

// Table renders averages as id_start, distance rows
func Table(averages []Average) *table.Table {
	out := table.New("within_threshold", ColStart, ColDistance)
	for _, avg := range averages {
		out.Append(avg.ID, table.FormatFloat(avg.Distance))
	}
	return out
}

func lessID(a, b string) bool {
	ai, aerr := strconv.ParseFloat(a, 64)
	bi, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
