package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey(t *testing.T) {
	ts := time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-05", DayKey(ts))
}

func TestEndOfDay(t *testing.T) {
	ts := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)
	end := EndOfDay(ts)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, 999999999, end.Nanosecond())
	assert.Equal(t, ts.Day(), end.Day())
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(start, end))

	sameDay := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(start, sameDay))

	// Across a month boundary
	febStart := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	marEnd := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(febStart, marEnd)) // 2024 is a leap year
}
