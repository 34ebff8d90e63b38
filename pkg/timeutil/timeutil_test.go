package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrailingWindow(t *testing.T) {
	ref := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	w := TrailingWindow(ref, 60)

	assert.Equal(t, time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, ref, w.To)
	assert.True(t, w.IsValid())
	assert.Equal(t, 60, w.Days())
}

func TestWindow_ContainsIsHalfOpen(t *testing.T) {
	ref := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	w := TrailingWindow(ref, 7)

	assert.True(t, w.Contains(w.From))
	assert.False(t, w.Contains(w.To))
	assert.True(t, w.Contains(w.To.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.From.Add(-time.Nanosecond)))
}

func TestWindow_Halves(t *testing.T) {
	ref := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	w := TrailingWindow(ref, 60)

	first, second := w.Halves()
	assert.Equal(t, w.From, first.From)
	assert.Equal(t, w.To, second.To)
	assert.Equal(t, first.To, second.From)
	assert.Equal(t, 30, first.Days())
	assert.Equal(t, 30, second.Days())
}

func TestWindow_FirstAndLastDays(t *testing.T) {
	ref := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	w := TrailingWindow(ref, 60)

	first := w.FirstDays(7)
	assert.Equal(t, w.From, first.From)
	assert.Equal(t, w.From.AddDate(0, 0, 7), first.To)

	last := w.LastDays(7)
	assert.Equal(t, w.To.AddDate(0, 0, -7), last.From)
	assert.Equal(t, w.To, last.To)

	// Requests longer than the window clamp to its bounds.
	assert.Equal(t, w, w.FirstDays(90))
	assert.Equal(t, w, w.LastDays(90))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, 3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestIsConsecutiveDay(t *testing.T) {
	a := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 3, 3, 0, 1, 0, 0, time.UTC)

	assert.True(t, IsConsecutiveDay(a, b))
	assert.False(t, IsConsecutiveDay(b, a))
	assert.False(t, IsConsecutiveDay(a, a))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-02")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("02.03.2026")
	assert.Error(t, err)
}
