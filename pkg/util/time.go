package util

import (
	"time"
)

// CalendarDaysBetween counts whole calendar days from a to b ignoring the
// time of day. Both dates are read in their own location.
func CalendarDaysBetween(a time.Time, b time.Time) int {
	from := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	return int(to.Sub(from).Hours() / 24)
}

// MinutesUntil is the whole number of minutes from now until t, never negative
func MinutesUntil(now time.Time, t time.Time) int {
	minutes := int(t.Sub(now).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}
