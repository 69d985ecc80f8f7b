package rateconfig

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/tollcalc/internal/coverage"
	"github.com/wonny/tollcalc/internal/timestamp"
	"github.com/wonny/tollcalc/internal/toll"
)

// Config holds every tunable of the toll toolkit
type Config struct {
	Factors    map[string]float64 `yaml:"factors" json:"factors"`
	TimeBands  []TimeBand         `yaml:"time_bands" json:"time_bands"`
	Coverage   Coverage           `yaml:"coverage" json:"coverage"`
	Thresholds Thresholds         `yaml:"thresholds" json:"thresholds"`
}

// TimeBand is a half-open time-of-day range
type TimeBand struct {
	Start string  `yaml:"start" json:"start"` // HH:MM
	End   string  `yaml:"end" json:"end"`     // HH:MM, 24:00 allowed
	Rate  float64 `yaml:"rate" json:"rate"`
}

// Coverage thresholds for the coverage check
type Coverage struct {
	MinHours float64 `yaml:"min_hours" json:"min_hours"`
	MinDays  int     `yaml:"min_days" json:"min_days"`
}

// Thresholds for the summary commands
type Thresholds struct {
	BusMeanMultiple   float64 `yaml:"bus_mean_multiple" json:"bus_mean_multiple"`
	TruckMinAverage   float64 `yaml:"truck_min_average" json:"truck_min_average"`
	DoubleAbove       float64 `yaml:"double_above" json:"double_above"`
	DistanceTolerance float64 `yaml:"distance_tolerance" json:"distance_tolerance"`
}

// Default returns the built-in configuration
func Default() *Config {
	factors := make(map[string]float64, len(toll.VehicleTypes))
	for _, v := range toll.VehicleTypes {
		factors[v] = 0.1
	}

	return &Config{
		Factors: factors,
		TimeBands: []TimeBand{
			{Start: "00:00", End: "06:00", Rate: 0.05},
			{Start: "06:00", End: "12:00", Rate: 0.1},
			{Start: "12:00", End: "18:00", Rate: 0.15},
			{Start: "18:00", End: "24:00", Rate: 0.2},
		},
		Coverage: Coverage{MinHours: 24, MinDays: 7},
		Thresholds: Thresholds{
			BusMeanMultiple:   2,
			TruckMinAverage:   7,
			DoubleAbove:       5,
			DistanceTolerance: 0.1,
		},
	}
}

// Schedule converts the time bands; call Validate first
func (c *Config) Schedule() toll.Schedule {
	s := make(toll.Schedule, 0, len(c.TimeBands))
	for _, b := range c.TimeBands {
		start, _ := timestamp.ParseClock(b.Start)
		end, _ := timestamp.ParseClock(b.End)
		s = append(s, toll.Band{Start: start, End: end, Rate: decimal.NewFromFloat(b.Rate)})
	}
	return s
}

// TollFactors converts the per-vehicle factors
func (c *Config) TollFactors() toll.Factors {
	f := make(toll.Factors, len(c.Factors))
	for v, factor := range c.Factors {
		f[v] = decimal.NewFromFloat(factor)
	}
	return f
}

// CoverageConfig converts the coverage thresholds
func (c *Config) CoverageConfig() coverage.Config {
	return coverage.Config{MinHours: c.Coverage.MinHours, MinDays: c.Coverage.MinDays}
}

// sortedBands returns band offsets ordered by start, for gap/overlap checks
func (c *Config) sortedBands() [][2]time.Duration {
	bands := make([][2]time.Duration, 0, len(c.TimeBands))
	for _, b := range c.TimeBands {
		start, _ := timestamp.ParseClock(b.Start)
		end, _ := timestamp.ParseClock(b.End)
		bands = append(bands, [2]time.Duration{start, end})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i][0] < bands[j][0] })
	return bands
}
