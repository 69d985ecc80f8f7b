// Package geo computes great-circle distances between toll points.
package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/wonny/tollcalc/internal/matrix"
	"github.com/wonny/tollcalc/internal/table"
)

// EarthRadiusKm is the mean Earth radius used by Haversine
const EarthRadiusKm = 6371.0

// Point is a labelled coordinate in decimal degrees
type Point struct {
	ID  string
	Lat float64
	Lon float64
}

// Metric measures the distance between two points
type Metric func(a, b Point) float64

// Haversine returns the great-circle distance in kilometres
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// HaversineMetric adapts Haversine to Metric
func HaversineMetric(a, b Point) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceMatrix computes every pairwise distance. The result is symmetric
// with a zero diagonal; each unordered pair is measured once. Point IDs are
// expected to be unique: a later point sharing an ID with an earlier one is
// skipped so the diagonal stays zero.
func DistanceMatrix(points []Point, metric Metric) *matrix.Matrix {
	m := matrix.New()
	kept := make([]Point, 0, len(points))
	for _, p := range points {
		if _, seen := m.Get(p.ID, p.ID); seen {
			continue
		}
		m.Set(p.ID, p.ID, 0)
		for _, q := range kept {
			d := metric(q, p)
			m.Set(q.ID, p.ID, d)
			m.Set(p.ID, q.ID, d)
		}
		kept = append(kept, p)
	}
	return m
}

// PointsFromTable reads latitude and longitude columns. Points are labelled
// by the id column when its values are unique, and by row position otherwise.
// Rows with a non-numeric coordinate are skipped.
func PointsFromTable(t *table.Table) ([]Point, error) {
	if err := t.Require("latitude", "longitude"); err != nil {
		return nil, err
	}

	useID := t.HasColumn("id") && uniqueIDs(t)
	points := make([]Point, 0, t.Len())
	for i, row := range t.Rows {
		lat, ok := t.Float(i, "latitude")
		if !ok {
			continue
		}
		lon, ok := t.Float(i, "longitude")
		if !ok {
			continue
		}

		id := strconv.Itoa(i)
		if useID {
			id = strings.TrimSpace(row["id"])
		}
		points = append(points, Point{ID: id, Lat: lat, Lon: lon})
	}
	return points, nil
}

func uniqueIDs(t *table.Table) bool {
	seen := make(map[string]bool, t.Len())
	for _, row := range t.Rows {
		id := strings.TrimSpace(row["id"])
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}
