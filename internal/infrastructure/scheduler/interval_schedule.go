package scheduler

import (
	"fmt"
	"time"
)

// MinInterval is the floor for interval schedules. The run loop ticks once
// per second, so a shorter interval cannot fire more often anyway.
const MinInterval = time.Second

// IntervalSchedule runs a job at a fixed interval. Used for deployments
// that recompute more often than the cron presets allow.
type IntervalSchedule struct {
	interval time.Duration
}

// NewIntervalSchedule creates an IntervalSchedule. Intervals below
// MinInterval are raised to it.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &IntervalSchedule{interval: interval}
}

// Interval returns the effective interval.
func (s *IntervalSchedule) Interval() time.Duration {
	return s.interval
}

// Next returns the next run strictly after t.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.interval)
}

// String returns the cron-style description of the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.interval.String())
}
