package utils

import "time"

// DayKey formats a timestamp as its calendar date, the grouping key used by
// all daily report buckets.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// StartOfDay truncates a timestamp to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay extends a timestamp to the last nanosecond of its calendar day, so
// inclusive end dates cover the whole day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// DaysBetween counts calendar days from start to end inclusive.
func DaysBetween(start, end time.Time) int {
	s := StartOfDay(start)
	e := StartOfDay(end)
	return int(e.Sub(s).Hours()/24) + 1
}
