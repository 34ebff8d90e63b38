package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule fires a fixed duration after each run. Used for cadences
// that need no calendar alignment, like frequent course-scoped risk sweeps.
type IntervalSchedule struct {
	Interval time.Duration
}

var _ Schedule = (*IntervalSchedule)(nil)

// NewIntervalSchedule creates a schedule firing every interval. Intervals
// below one second are raised to it, matching the scheduler tick.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	if interval < time.Second {
		interval = time.Second
	}
	return &IntervalSchedule{Interval: interval}
}

// Next returns the time one interval after t.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}
