package toll

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/tollcalc/internal/table"
	"github.com/wonny/tollcalc/internal/timestamp"
)

// ColTimeRate is the column added by AssignTimeRates
const ColTimeRate = "time_based_toll_rate"

// ErrInvalidSchedule is returned for empty schedules or malformed bands
var ErrInvalidSchedule = errors.New("invalid toll schedule")

// Band is a half-open time-of-day range [Start, End) with its rate
type Band struct {
	Start time.Duration
	End   time.Duration
	Rate  decimal.Decimal
}

// Contains reports whether offset falls inside the band
func (b Band) Contains(offset time.Duration) bool {
	return offset >= b.Start && offset < b.End
}

// Schedule is an ordered list of bands; the first band containing a time wins
type Schedule []Band

// DefaultSchedule covers the day in four six-hour bands
func DefaultSchedule() Schedule {
	return Schedule{
		{Start: 0, End: 6 * time.Hour, Rate: decimal.NewFromFloat(0.05)},
		{Start: 6 * time.Hour, End: 12 * time.Hour, Rate: decimal.NewFromFloat(0.1)},
		{Start: 12 * time.Hour, End: 18 * time.Hour, Rate: decimal.NewFromFloat(0.15)},
		{Start: 18 * time.Hour, End: 24 * time.Hour, Rate: decimal.NewFromFloat(0.2)},
	}
}

// Validate checks that every band lies within one day and is non-empty
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalidSchedule)
	}
	for i, b := range s {
		if b.Start < 0 || b.End > 24*time.Hour {
			return fmt.Errorf("%w: band %d outside 00:00-24:00", ErrInvalidSchedule, i)
		}
		if b.Start >= b.End {
			return fmt.Errorf("%w: band %d start must be before end", ErrInvalidSchedule, i)
		}
		if b.Rate.IsNegative() {
			return fmt.Errorf("%w: band %d has a negative rate", ErrInvalidSchedule, i)
		}
	}
	return nil
}

// RateAt returns the rate of the first band containing offset
func (s Schedule) RateAt(offset time.Duration) (decimal.Decimal, bool) {
	for _, b := range s {
		if b.Contains(offset) {
			return b.Rate, true
		}
	}
	return decimal.Zero, false
}

// AssignTimeRates returns a copy of t with time_based_toll_rate set from the
// band matching each row's startDay/startTime. The input columns are left
// untouched. Rows that do not parse or match any band get rate 0.
func AssignTimeRates(t *table.Table, s Schedule) (*table.Table, error) {
	if err := t.Require("startDay", "startTime"); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	out := t.WithColumn(ColTimeRate, func(i int, row table.Row) string {
		ts, ok := timestamp.Parse(row["startDay"], row["startTime"])
		if !ok {
			return decimal.Zero.String()
		}
		rate, _ := s.RateAt(timestamp.SinceMidnight(ts))
		return rate.String()
	})
	return out, nil
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
