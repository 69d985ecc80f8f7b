// Package coverage checks whether every interval recorded for an (id, id_2)
// pair spans at least a full day and a full week.
//
// Coverage is evaluated record by record: a group covers a full day only if
// each of its records individually lasts 24 hours or more. Overlapping or
// adjacent intervals are not merged.
package coverage

import (
	"strconv"
	"strings"
	"time"

	"github.com/wonny/tollcalc/internal/table"
	"github.com/wonny/tollcalc/internal/timestamp"
)

const day = 24 * time.Hour

// Validator evaluates interval coverage per group
type Validator struct {
	config Config
}

// Config holds coverage thresholds
type Config struct {
	MinHours float64 `yaml:"min_hours"` // 24
	MinDays  int     `yaml:"min_days"`  // 7
}

// DefaultConfig returns the full-day / full-week thresholds
func DefaultConfig() Config {
	return Config{MinHours: 24, MinDays: 7}
}

// NewValidator creates a new Validator instance
func NewValidator(config Config) *Validator {
	return &Validator{config: config}
}

// Validate groups records by (id, id_2) and evaluates each group.
// Records with unparseable timestamps are skipped; groups left empty are omitted.
func Validate(records []IntervalRecord) map[GroupKey]Result {
	return NewValidator(DefaultConfig()).Validate(records)
}

// Validate evaluates records against the validator's thresholds
func (v *Validator) Validate(records []IntervalRecord) map[GroupKey]Result {
	return v.aggregate(Normalize(records))
}

// Check reads interval records from t and returns a summarized report.
// A *table.SchemaError is returned when a required column is missing.
func (v *Validator) Check(t *table.Table) (*Report, error) {
	records, err := RecordsFromTable(t)
	if err != nil {
		return nil, err
	}

	intervals := Normalize(records)
	report := &Report{
		Results: v.aggregate(intervals),
		Total:   len(records),
		Dropped: len(records) - len(intervals),
	}

	for _, res := range report.Results {
		if res.CoversFullDay {
			report.FullDay++
		}
		if res.CoversFullWeek {
			report.FullWeek++
		}
	}

	return report, nil
}

// Normalize parses timestamps and derives durations.
// Records whose start or end fails to parse are dropped.
func Normalize(records []IntervalRecord) []NormalizedInterval {
	intervals := make([]NormalizedInterval, 0, len(records))
	for _, rec := range records {
		start, ok := timestamp.Parse(rec.StartDay, rec.StartTime)
		if !ok {
			continue
		}
		end, ok := timestamp.Parse(rec.EndDay, rec.EndTime)
		if !ok {
			continue
		}

		secs, nanos := elapsed(start, end)
		intervals = append(intervals, NormalizedInterval{
			Key: GroupKey{
				ID:  strings.TrimSpace(rec.ID),
				ID2: strings.TrimSpace(rec.ID2),
			},
			Start:         start,
			End:           end,
			DurationHours: float64(secs)/3600 + float64(nanos)/float64(time.Hour),
			DurationDays:  wholeDays(secs) + 1,
		})
	}
	return intervals
}

// elapsed returns end - start as whole seconds plus a non-negative
// nanosecond remainder. Unlike time.Sub it does not saturate on wide date spans.
func elapsed(start, end time.Time) (secs int64, nanos int64) {
	secs = end.Unix() - start.Unix()
	nanos = int64(end.Nanosecond() - start.Nanosecond())
	if nanos < 0 {
		secs--
		nanos += int64(time.Second)
	}
	return secs, nanos
}

// wholeDays floors secs to whole 24h periods, rounding toward negative infinity
func wholeDays(secs int64) int {
	const daySecs = int64(day / time.Second)
	days := secs / daySecs
	if secs%daySecs < 0 {
		days--
	}
	return int(days)
}

// aggregate applies the all-members reduction to each threshold independently
func (v *Validator) aggregate(intervals []NormalizedInterval) map[GroupKey]Result {
	results := make(map[GroupKey]Result)
	for _, iv := range intervals {
		res, seen := results[iv.Key]
		if !seen {
			res = Result{CoversFullDay: true, CoversFullWeek: true}
		}
		res.CoversFullDay = res.CoversFullDay && iv.DurationHours >= v.config.MinHours
		res.CoversFullWeek = res.CoversFullWeek && iv.DurationDays >= v.config.MinDays
		results[iv.Key] = res
	}
	return results
}

// Table renders the report as id, id_2, covers_full_day, covers_full_week rows
func (r *Report) Table() *table.Table {
	out := table.New("coverage", "id", "id_2", "covers_full_day", "covers_full_week")
	for _, k := range r.SortedKeys() {
		res := r.Results[k]
		out.Append(k.ID, k.ID2,
			strconv.FormatBool(res.CoversFullDay),
			strconv.FormatBool(res.CoversFullWeek))
	}
	return out
}
