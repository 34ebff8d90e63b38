// Package timeutil provides time-window utilities for the analytics and
// risk-prediction subsystems. All computations are UTC-based so feature
// extraction stays reproducible regardless of server timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// StartOfDay returns the start of the day (00:00:00) in UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in UTC.
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999999999, time.UTC)
}

// IsSameDay checks if two times are on the same UTC day.
func IsSameDay(t1, t2 time.Time) bool {
	a, b := t1.UTC(), t2.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// IsConsecutiveDay checks if t2 is the day immediately after t1.
func IsConsecutiveDay(t1, t2 time.Time) bool {
	next := StartOfDay(t1).AddDate(0, 0, 1)
	return IsSameDay(next, t2)
}

// DaysBetween returns the number of whole days between two times.
// The result is always non-negative.
func DaysBetween(t1, t2 time.Time) int {
	d1 := StartOfDay(t1)
	d2 := StartOfDay(t2)
	days := int(d2.Sub(d1).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// DaysSince calculates the number of whole days since the given time.
func DaysSince(t time.Time) int {
	return DaysBetween(t, Now())
}

// ═══════════════════════════════════════════════════════════════════════════
// Trailing Windows
// ═══════════════════════════════════════════════════════════════════════════

// Window is a half-open time interval [From, To) used to scope analytics
// queries and feature extraction.
type Window struct {
	From time.Time
	To   time.Time
}

// TrailingWindow returns a window covering the given number of days ending at
// the supplied reference time.
func TrailingWindow(ref time.Time, days int) Window {
	ref = ref.UTC()
	return Window{
		From: ref.AddDate(0, 0, -days),
		To:   ref,
	}
}

// TrailingDays returns a trailing window ending now.
func TrailingDays(days int) Window {
	return TrailingWindow(Now(), days)
}

// IsValid reports whether the window has a positive span.
func (w Window) IsValid() bool {
	return w.To.After(w.From)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// Days returns the window span in whole days.
func (w Window) Days() int {
	if !w.IsValid() {
		return 0
	}
	return int(w.To.Sub(w.From).Hours() / 24)
}

// Duration returns the window span.
func (w Window) Duration() time.Duration {
	return w.To.Sub(w.From)
}

// Midpoint returns the point in time that splits the window in half.
// Trend features compare aggregates on either side of this point.
func (w Window) Midpoint() time.Time {
	return w.From.Add(w.To.Sub(w.From) / 2)
}

// Halves splits the window into its first and second half.
func (w Window) Halves() (Window, Window) {
	mid := w.Midpoint()
	return Window{From: w.From, To: mid}, Window{From: mid, To: w.To}
}

// FirstDays returns a sub-window covering the first n days of the window.
func (w Window) FirstDays(n int) Window {
	to := w.From.AddDate(0, 0, n)
	if to.After(w.To) {
		to = w.To
	}
	return Window{From: w.From, To: to}
}

// LastDays returns a sub-window covering the last n days of the window.
func (w Window) LastDays(n int) Window {
	from := w.To.AddDate(0, 0, -n)
	if from.Before(w.From) {
		from = w.From
	}
	return Window{From: from, To: w.To}
}

// String returns a human-readable representation of the window.
func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.From.Format(time.RFC3339), w.To.Format(time.RFC3339))
}

// ═══════════════════════════════════════════════════════════════════════════
// Formatting and Parsing
// ═══════════════════════════════════════════════════════════════════════════

// FormatDateStr formats a time as a date string (2006-01-02) in UTC.
func FormatDateStr(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatDateTimeStr formats a time as a datetime string in UTC.
func FormatDateTimeStr(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// ParseDate parses a date string (2006-01-02) as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}
