// Package timestamp parses the textual day/time pairs used by the interval datasets.
//
// A day is either an ISO date (2006-01-02) or an English weekday name. Weekday
// names resolve inside a fixed reference week that starts on Monday 2024-01-01
// UTC, so Monday through Sunday map to consecutive calendar dates.
package timestamp

import (
	"strings"
	"time"
)

// ReferenceMonday anchors weekday names to concrete dates
var ReferenceMonday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const dateLayout = "2006-01-02"

var clockLayouts = []string{"15:04:05", "15:04"}

var weekdays = map[string]int{
	"monday": 0, "mon": 0,
	"tuesday": 1, "tue": 1, "tues": 1,
	"wednesday": 2, "wed": 2,
	"thursday": 3, "thu": 3, "thur": 3, "thurs": 3,
	"friday": 4, "fri": 4,
	"saturday": 5, "sat": 5,
	"sunday": 6, "sun": 6,
}

// Parse combines day and clock into a timestamp. Fractional seconds
// (09:00:00.5) are kept.
// It reports false instead of failing so callers can drop bad records individually.
func Parse(day, clock string) (time.Time, bool) {
	date, ok := ParseDay(day)
	if !ok {
		return time.Time{}, false
	}

	offset, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}

	return date.Add(offset), true
}

// ParseDay resolves a weekday name or ISO date to midnight UTC
func ParseDay(day string) (time.Time, bool) {
	day = strings.TrimSpace(day)
	if idx, ok := weekdays[strings.ToLower(day)]; ok {
		return ReferenceMonday.AddDate(0, 0, idx), true
	}

	date, err := time.ParseInLocation(dateLayout, day, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// ParseClock returns the offset from midnight for a time of day.
// Unlike Parse it accepts 24:00 as the exclusive end of a day.
func ParseClock(clock string) (time.Duration, bool) {
	switch strings.TrimSpace(clock) {
	case "24:00", "24:00:00":
		return 24 * time.Hour, true
	}
	return parseClock(clock)
}

func parseClock(clock string) (time.Duration, bool) {
	clock = strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, clock)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond()), true
		}
	}
	return 0, false
}

// SinceMidnight returns the time-of-day component of t
func SinceMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	return t.Sub(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}
