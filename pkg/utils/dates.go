package utils

import (
	"math"
	"time"
)

// DateOf truncates a timestamp to its civil date at UTC midnight. All
// accrual arithmetic works on civil dates, not on wall-clock instants.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. Negative when b
// precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)) / (24 * time.Hour))
}

// AddDays shifts a date by n days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Round2 rounds a monetary float to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
