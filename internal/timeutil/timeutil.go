package timeutil

import (
	"math"
	"time"
)

// Midnight truncates t to 00:00:00 in its own location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday midnight of the week containing t. A Sunday
// belongs to the week it ends, so it maps to the preceding Monday.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	return Midnight(t.AddDate(0, 0, -offset))
}

// MonthStart returns midnight on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MinutesBetween rounds the interval to whole minutes, half away from zero,
// so 90 seconds counts as 2 minutes.
func MinutesBetween(start, end time.Time) int32 {
	return int32(math.Round(end.Sub(start).Minutes()))
}

// HoursFromMinutes converts summed minutes to hours with one decimal.
func HoursFromMinutes(minutes int32) float64 {
	return math.Round(float64(minutes)/60.0*10) / 10
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayLabels are the weekly breakdown labels, Monday first.
var DayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
