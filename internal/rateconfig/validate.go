package rateconfig

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/wonny/tollcalc/internal/timestamp"
	"github.com/wonny/tollcalc/internal/toll"
)

// ValidationError aborts loading
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning flags a legal but suspicious setting
type Warning struct {
	Code    string
	Message string
}

var hhmm = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Factors ===
	known := make(map[string]bool, len(toll.VehicleTypes))
	for _, v := range toll.VehicleTypes {
		known[v] = true
	}
	for vehicle, factor := range cfg.Factors {
		if !known[vehicle] {
			return ValidationError{"factors." + vehicle, "unknown vehicle type"}
		}
		if factor < 0 {
			return ValidationError{"factors." + vehicle, "must be >= 0"}
		}
	}

	// === Time bands ===
	if len(cfg.TimeBands) == 0 {
		return ValidationError{"time_bands", "required"}
	}
	for i, b := range cfg.TimeBands {
		field := fmt.Sprintf("time_bands[%d]", i)
		if err := validateHHMM(b.Start); err != nil {
			return ValidationError{field + ".start", err.Error()}
		}
		if err := validateHHMM(b.End); err != nil {
			return ValidationError{field + ".end", err.Error()}
		}
		if b.Rate < 0 {
			return ValidationError{field + ".rate", "must be >= 0"}
		}
	}
	if err := cfg.Schedule().Validate(); err != nil {
		return ValidationError{"time_bands", err.Error()}
	}

	// === Coverage ===
	if cfg.Coverage.MinHours <= 0 {
		return ValidationError{"coverage.min_hours", "must be > 0"}
	}
	if cfg.Coverage.MinDays <= 0 {
		return ValidationError{"coverage.min_days", "must be > 0"}
	}

	// === Thresholds ===
	if cfg.Thresholds.BusMeanMultiple <= 0 {
		return ValidationError{"thresholds.bus_mean_multiple", "must be > 0"}
	}
	if cfg.Thresholds.DistanceTolerance < 0 || cfg.Thresholds.DistanceTolerance > 1 {
		return ValidationError{"thresholds.distance_tolerance", "must be in range [0, 1]"}
	}

	return nil
}

// Warn reports gaps and overlaps between time bands.
// Uncovered times get rate 0 and overlapping times take the first listed band.
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	var cursor time.Duration
	for _, b := range cfg.sortedBands() {
		if b[0] > cursor {
			warnings = append(warnings, Warning{
				Code:    "BAND_GAP",
				Message: fmt.Sprintf("no band covers %s-%s", formatClock(cursor), formatClock(b[0])),
			})
		}
		if b[0] < cursor {
			warnings = append(warnings, Warning{
				Code:    "BAND_OVERLAP",
				Message: fmt.Sprintf("bands overlap at %s; the first listed band wins", formatClock(b[0])),
			})
		}
		if b[1] > cursor {
			cursor = b[1]
		}
	}
	if cursor < 24*time.Hour {
		warnings = append(warnings, Warning{
			Code:    "BAND_GAP",
			Message: fmt.Sprintf("no band covers %s-24:00", formatClock(cursor)),
		})
	}

	return warnings
}

// === Helper Functions ===

func validateHHMM(s string) error {
	if !hhmm.MatchString(s) {
		return errors.New("must be HH:MM format")
	}
	if _, ok := timestamp.ParseClock(s); !ok {
		return errors.New("not a valid time of day")
	}
	return nil
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
