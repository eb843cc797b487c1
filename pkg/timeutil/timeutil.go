// Package timeutil provides time helpers for ranking period windows.
// All calculations are UTC: period boundaries must agree across instances
// regardless of where they run.
package timeutil

import "time"

// Now returns the current UTC time.
func Now() time.Time {
	return time.Now().UTC()
}

// Date constructs a UTC date at midnight.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// PERIOD BOUNDARIES
// ──────────────────────────────────────────────────────────────────────────────

// StartOfDay returns midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of the day containing t.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight Monday of the week containing t.
// Weekly ranking periods run Monday through Sunday.
func StartOfWeek(t time.Time) time.Time {
	t = StartOfDay(t)
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset)
}

// EndOfWeek returns the last nanosecond of the week containing t.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// StartOfMonth returns midnight on the first of the month containing t.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last nanosecond of the month containing t.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// ──────────────────────────────────────────────────────────────────────────────
// DAY COMPARISONS (streak logic)
// ──────────────────────────────────────────────────────────────────────────────

// IsSameDay reports whether two times fall on the same UTC day.
func IsSameDay(t1, t2 time.Time) bool {
	return StartOfDay(t1).Equal(StartOfDay(t2))
}

// IsConsecutiveDay reports whether t2 falls on the UTC day directly after
// t1. Used to decide whether an activity extends or breaks a streak.
func IsConsecutiveDay(t1, t2 time.Time) bool {
	return StartOfDay(t1).AddDate(0, 0, 1).Equal(StartOfDay(t2))
}

// DaysBetween returns the number of whole UTC days between two times.
// The result is non-negative regardless of argument order.
func DaysBetween(t1, t2 time.Time) int {
	d1, d2 := StartOfDay(t1), StartOfDay(t2)
	if d1.After(d2) {
		d1, d2 = d2, d1
	}
	return int(d2.Sub(d1).Hours() / 24)
}

// DaysSince returns the number of whole UTC days from t to now.
func DaysSince(t time.Time) int {
	return DaysBetween(t, Now())
}
