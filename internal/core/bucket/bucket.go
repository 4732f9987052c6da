// Package bucket maps unix timestamps onto calendar days in one explicit
// time zone. Every function is pure: the zone is always a parameter, never
// read from process state, so bucket assignment is deterministic and the
// same query always buckets the same record onto the same day.
package bucket

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical string form of a day bucket.
const KeyLayout = "2006-01-02"

// DayOf returns the local midnight of the calendar day the timestamp falls
// into, interpreted in loc. Two timestamps less than 86400 seconds apart can
// still land on different days if they straddle local midnight.
func DayOf(unixSec int64, loc *time.Location) time.Time {
	t := time.Unix(unixSec, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Midnight truncates t to the start of its calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Key formats a day as YYYY-MM-DD.
func Key(day time.Time) string {
	return day.Format(KeyLayout)
}

// ParseKey parses a YYYY-MM-DD string into the local midnight of that day.
func ParseKey(s string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(KeyLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return day, nil
}

// Bounds returns the half-open unix-second interval [start, end) covering the
// calendar day. The end bound is the next local midnight via AddDate, so days
// shortened or stretched by DST transitions keep correct boundaries.
func Bounds(day time.Time) (startUnix, endUnix int64) {
	return day.Unix(), day.AddDate(0, 0, 1).Unix()
}

// Window returns the days+1 consecutive calendar days ending at asOf's day,
// oldest first. days must be >= 0.
func Window(asOf time.Time, days int, loc *time.Location) []time.Time {
	last := Midnight(asOf, loc)
	out := make([]time.Time, 0, days+1)
	for i := days; i >= 0; i-- {
		out = append(out, last.AddDate(0, 0, -i))
	}
	return out
}
