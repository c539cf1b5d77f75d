package services

import (
	"math"
	"time"
)

// round2 coerces a monetary value to 2 fraction digits.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// dateOnly strips the time-of-day component so that date comparisons are
// pure calendar comparisons.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
