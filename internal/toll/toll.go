// Package toll derives toll amounts from vehicle counts, route distances and
// time-of-day rate bands. Amounts are computed with decimal arithmetic.
package toll

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/tollcalc/internal/table"
)

// VehicleTypes lists the vehicle count columns, in output order
var VehicleTypes = []string{"moto", "car", "rv", "bus", "truck"}

// RateColumn returns the output column name for a vehicle type
func RateColumn(vehicle string) string {
	return vehicle + "_toll_rate"
}

// Factors maps a vehicle type to its per-unit-distance multiplier
type Factors map[string]decimal.Decimal

// DefaultFactors applies 0.1 to every vehicle type
func DefaultFactors() Factors {
	f := make(Factors, len(VehicleTypes))
	for _, v := range VehicleTypes {
		f[v] = decimal.NewFromFloat(0.1)
	}
	return f
}

// JoinAndRate joins routes with intervals on id_2, then with distances on
// (id_1, id_2) = (id_start, id_end), and adds <vehicle>_toll_rate =
// factor * count * distance for each vehicle column present.
//
// Missing join keys produce an empty table. A row whose count or distance is
// not numeric gets an empty toll cell.
func JoinAndRate(routes, intervals, distances *table.Table, factors Factors) *table.Table {
	merged := table.InnerJoin(routes, intervals, []string{"id_2"}, []string{"id_2"})
	merged = table.InnerJoin(merged, distances, []string{"id_1", "id_2"}, []string{"id_start", "id_end"})
	merged.Name = "toll_rates"
	if !merged.HasColumn("distance") {
		return merged
	}

	for _, vehicle := range VehicleTypes {
		factor, ok := factors[vehicle]
		if !ok || !merged.HasColumn(vehicle) {
			continue
		}
		merged = merged.WithColumn(RateColumn(vehicle), func(i int, row table.Row) string {
			count, err := decimal.NewFromString(trim(row[vehicle]))
			if err != nil {
				return ""
			}
			dist, err := decimal.NewFromString(trim(row["distance"]))
			if err != nil {
				return ""
			}
			return factor.Mul(count).Mul(dist).String()
		})
	}

	return merged
}
