package coverage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tollcalc/internal/table"
)

func rec(id, id2, startDay, startTime, endDay, endTime string) IntervalRecord {
	return IntervalRecord{
		ID: id, ID2: id2,
		StartDay: startDay, StartTime: startTime,
		EndDay: endDay, EndTime: endTime,
	}
}

func TestValidate_FullWeekScenario(t *testing.T) {
	records := []IntervalRecord{
		rec("1", "1", "Monday", "00:00", "Sunday", "23:59"),
	}

	intervals := Normalize(records)
	require.Len(t, intervals, 1)
	assert.InDelta(t, 167.98, intervals[0].DurationHours, 0.01)
	assert.Equal(t, 7, intervals[0].DurationDays)

	results := Validate(records)
	require.Len(t, results, 1)
	assert.Equal(t, Result{CoversFullDay: true, CoversFullWeek: true}, results[GroupKey{"1", "1"}])
}

func TestValidate_UnparseableGroupIsAbsent(t *testing.T) {
	records := []IntervalRecord{
		rec("1", "1", "Monday", "00:00:00", "Sunday", "23:59:59"),
		rec("3", "3", "Someday", "00:00:00", "Sunday", "23:59:59"),
		rec("4", "4", "Monday", "00:00:00", "Sunday", "99:00"),
	}

	results := Validate(records)

	assert.Len(t, results, 1)
	assert.NotContains(t, results, GroupKey{"3", "3"})
	assert.NotContains(t, results, GroupKey{"4", "4"})
}

func TestValidate_PartiallyParseableGroupKeepsSurvivors(t *testing.T) {
	records := []IntervalRecord{
		rec("5", "5", "Monday", "00:00", "Sunday", "23:59"),
		rec("5", "5", "bad", "00:00", "Monday", "01:00"),
	}

	results := Validate(records)
	assert.Equal(t, Result{CoversFullDay: true, CoversFullWeek: true}, results[GroupKey{"5", "5"}])
}

func TestValidate_AllMembersMustQualify(t *testing.T) {
	records := []IntervalRecord{
		// 30 hours
		rec("2", "2", "2024-03-04", "00:00", "2024-03-05", "06:00"),
		// 10 hours
		rec("2", "2", "2024-03-06", "08:00", "2024-03-06", "18:00"),
	}

	results := Validate(records)
	assert.False(t, results[GroupKey{"2", "2"}].CoversFullDay)
	assert.False(t, results[GroupKey{"2", "2"}].CoversFullWeek)
}

func TestValidate_JustUnderADay(t *testing.T) {
	records := []IntervalRecord{
		rec("7", "1", "Monday", "00:00", "Wednesday", "00:00"),
		// 23:59:24 = 23.99 hours
		rec("7", "1", "Tuesday", "00:00:00", "Tuesday", "23:59:24"),
	}

	intervals := Normalize(records)
	require.Len(t, intervals, 2)
	assert.InDelta(t, 23.99, intervals[1].DurationHours, 1e-9)

	results := Validate(records)
	assert.False(t, results[GroupKey{"7", "1"}].CoversFullDay)
}

func TestValidate_ColumnsReducedIndependently(t *testing.T) {
	records := []IntervalRecord{
		// 48h, 3 days
		rec("8", "8", "Monday", "00:00", "Wednesday", "00:00"),
		// 7 days exactly -> 168h, 8 days
		rec("8", "8", "2024-01-01", "00:00", "2024-01-08", "00:00"),
	}

	results := Validate(records)
	assert.Equal(t, Result{CoversFullDay: true, CoversFullWeek: false}, results[GroupKey{"8", "8"}])
}

func TestNormalize_ZeroLengthInterval(t *testing.T) {
	intervals := Normalize([]IntervalRecord{
		rec("1", "1", "Thursday", "10:00:00", "Thursday", "10:00:00"),
	})

	require.Len(t, intervals, 1)
	assert.Equal(t, 0.0, intervals[0].DurationHours)
	assert.Equal(t, 1, intervals[0].DurationDays)
}

func TestNormalize_NegativeDurationNotClamped(t *testing.T) {
	intervals := Normalize([]IntervalRecord{
		rec("1", "1", "Wednesday", "12:00", "Monday", "12:00"),
		rec("1", "1", "Monday", "12:00", "Monday", "11:00"),
	})

	require.Len(t, intervals, 2)
	assert.Equal(t, -48.0, intervals[0].DurationHours)
	assert.Equal(t, -1, intervals[0].DurationDays)
	assert.Equal(t, -1.0, intervals[1].DurationHours)
	// one hour backwards floors to -1 day
	assert.Equal(t, 0, intervals[1].DurationDays)
}

func TestNormalize_WholeDaysAreElapsedNotCalendar(t *testing.T) {
	intervals := Normalize([]IntervalRecord{
		rec("1", "1", "Monday", "23:00", "Tuesday", "01:00"),
	})

	require.Len(t, intervals, 1)
	assert.Equal(t, 1, intervals[0].DurationDays)
}

func TestValidate_Idempotent(t *testing.T) {
	records := []IntervalRecord{
		rec("1", "1", "Monday", "00:00", "Sunday", "23:59"),
		rec("2", "2", "Monday", "00:00", "Monday", "10:00"),
		rec("2", "3", "bad", "00:00", "Monday", "10:00"),
	}
	snapshot := append([]IntervalRecord(nil), records...)

	first := Validate(records)
	second := Validate(records)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, records, "input must not be mutated")
}

func TestValidate_CustomThresholds(t *testing.T) {
	v := NewValidator(Config{MinHours: 8, MinDays: 1})

	results := v.Validate([]IntervalRecord{
		rec("1", "1", "Monday", "08:00", "Monday", "18:00"),
	})

	assert.Equal(t, Result{CoversFullDay: true, CoversFullWeek: true}, results[GroupKey{"1", "1"}])
}

func TestValidator_Check(t *testing.T) {
	tbl := table.New("dataset-2", "id", "name", "id_2", "startDay", "startTime", "endDay", "endTime")
	tbl.Append("1015000", "Intersection 1", "1015500", "Monday", "00:00:00", "Sunday", "23:59:59")
	tbl.Append("1015000", "Intersection 1", "1015500", "Monday", "00:00:00", "Friday", "23:59:59")
	tbl.Append("1030000", "Intersection 2", "-1", "Monday", "00:00:00", "Sunday", "23:59:59")
	tbl.Append("1040000", "Intersection 3", "-1", "Notaday", "00:00:00", "Sunday", "23:59:59")

	report, err := NewValidator(DefaultConfig()).Check(tbl)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, 2, report.Groups())
	assert.Equal(t, 2, report.FullDay)
	assert.Equal(t, 1, report.FullWeek)

	assert.Equal(t, []GroupKey{{"1015000", "1015500"}, {"1030000", "-1"}}, report.SortedKeys())

	out := report.Table()
	assert.Equal(t, []string{"id", "id_2", "covers_full_day", "covers_full_week"}, out.Columns)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "true", out.Value(0, "covers_full_day"))
	assert.Equal(t, "false", out.Value(0, "covers_full_week"))
	assert.Equal(t, "true", out.Value(1, "covers_full_week"))
}

func TestValidator_CheckMissingColumns(t *testing.T) {
	tbl := table.New("dataset-2", "id", "id_2", "startDay", "startTime")

	_, err := NewValidator(DefaultConfig()).Check(tbl)
	require.Error(t, err)

	var schemaErr *table.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"endDay", "endTime"}, schemaErr.Missing)
}

func TestGroupKeyLess(t *testing.T) {
	tests := []struct {
		a, b GroupKey
		want bool
	}{
		{GroupKey{"9", "1"}, GroupKey{"10", "1"}, true},
		{GroupKey{"10", "-1"}, GroupKey{"10", "5"}, true},
		{GroupKey{"b", "1"}, GroupKey{"a", "1"}, false},
		{GroupKey{"1", "1"}, GroupKey{"1", "1"}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.a.Less(tt.b), "%v < %v", tt.a, tt.b)
	}
}

func TestNormalize_WideISODateSpan(t *testing.T) {
	intervals := Normalize([]IntervalRecord{
		rec("1", "1", "0001-01-01", "00:00", "9999-12-31", "00:00"),
	})

	require.Len(t, intervals, 1)
	assert.Equal(t, 3652058.0*24, intervals[0].DurationHours)
	assert.Equal(t, 3652059, intervals[0].DurationDays)
}

func TestNormalize_FractionalSeconds(t *testing.T) {
	intervals := Normalize([]IntervalRecord{
		rec("1", "1", "Monday", "09:00", "Monday", "09:00:00.5"),
		rec("1", "1", "Monday", "09:00:00.5", "Tuesday", "09:00"),
	})

	require.Len(t, intervals, 2)
	assert.InDelta(t, 0.5/3600, intervals[0].DurationHours, 1e-12)
	assert.InDelta(t, 24-0.5/3600, intervals[1].DurationHours, 1e-9)
	assert.Equal(t, 1, intervals[1].DurationDays, "just under a day floors to zero whole days")
}

func TestValidate_KeysTrimmed(t *testing.T) {
	records := []IntervalRecord{
		rec(" 1", "2 ", "Monday", "00:00", "Sunday", "23:59"),
		rec("1", "2", "Monday", "00:00", "Monday", "12:00"),
	}

	results := Validate(records)
	require.Len(t, results, 1)
	assert.Equal(t, Result{CoversFullDay: false, CoversFullWeek: false}, results[GroupKey{ID: "1", ID2: "2"}])

	tbl := table.New("intervals", RequiredColumns...)
	for _, r := range records {
		tbl.Append(r.ID, r.ID2, r.StartDay, r.StartTime, r.EndDay, r.EndTime)
	}
	report, err := NewValidator(DefaultConfig()).Check(tbl)
	require.NoError(t, err)
	assert.Equal(t, results, report.Results)
}
