package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CRON SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// CronSchedule is a parsed 5-field cron expression (minute, hour, day of
// month, month, day of week). It implements Schedule.
type CronSchedule struct {
	raw      string
	minutes  uint64
	hours    uint64
	days     uint64
	months   uint64
	weekdays uint64

	// Standard cron ORs day of month and day of week when both are
	// restricted. A field counts as restricted unless it starts with "*".
	daysRestricted     bool
	weekdaysRestricted bool
}

// Cron presets used by the ranking jobs.
const (
	// CronDailyMidnight fires the daily rank recomputation.
	CronDailyMidnight = "0 0 * * *"

	// CronWeeklyMonday fires the weekly period rollover.
	CronWeeklyMonday = "0 0 * * 1"

	// CronMonthlyFirst fires the monthly period rollover.
	CronMonthlyFirst = "0 0 1 * *"

	// CronHourly is used for cache refresh in high-traffic deployments.
	CronHourly = "0 * * * *"
)

// ParseCron parses a 5-field cron expression.
func ParseCron(expr string) (*CronSchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("invalid cron expression %q: expected 5 fields, got %d", expr, len(fields))
	}

	cs := &CronSchedule{raw: expr}

	specs := []struct {
		name string
		min  int
		max  int
		dest *uint64
	}{
		{"minute", 0, 59, &cs.minutes},
		{"hour", 0, 23, &cs.hours},
		{"day", 1, 31, &cs.days},
		{"month", 1, 12, &cs.months},
		{"weekday", 0, 6, &cs.weekdays},
	}

	for i, spec := range specs {
		set, err := parseCronField(fields[i], spec.min, spec.max)
		if err != nil {
			return nil, fmt.Errorf("invalid %s field: %w", spec.name, err)
		}
		*spec.dest = set
	}

	cs.daysRestricted = !strings.HasPrefix(fields[2], "*")
	cs.weekdaysRestricted = !strings.HasPrefix(fields[4], "*")

	return cs, nil
}

// MustParseCron parses a cron expression or panics.
// Use only for compile-time constants.
func MustParseCron(expr string) *CronSchedule {
	cs, err := ParseCron(expr)
	if err != nil {
		panic(fmt.Sprintf("invalid cron expression %q: %v", expr, err))
	}
	return cs
}

// parseCronField parses one field into a bit set over [min, max].
// Supports wildcards, single values, ranges, lists, and steps.
func parseCronField(field string, min, max int) (uint64, error) {
	var set uint64

	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)

		step := 1
		if idx := strings.IndexByte(part, '/'); idx >= 0 {
			s, err := strconv.Atoi(part[idx+1:])
			if err != nil || s <= 0 {
				return 0, fmt.Errorf("invalid step in %q", part)
			}
			step = s
			part = part[:idx]
		}

		start, end := min, max
		switch {
		case part == "*":
			// full range
		case strings.Contains(part, "-"):
			bounds := strings.SplitN(part, "-", 2)
			lo, err := strconv.Atoi(bounds[0])
			if err != nil {
				return 0, fmt.Errorf("invalid range start in %q", part)
			}
			hi, err := strconv.Atoi(bounds[1])
			if err != nil {
				return 0, fmt.Errorf("invalid range end in %q", part)
			}
			start, end = lo, hi
		default:
			v, err := strconv.Atoi(part)
			if err != nil {
				return 0, fmt.Errorf("invalid value %q", part)
			}
			if v < min || v > max {
				return 0, fmt.Errorf("value %d out of range [%d-%d]", v, min, max)
			}
			start = v
			if step == 1 {
				end = v
			}
		}

		if start < min || end > max || start > end {
			return 0, fmt.Errorf("range %d-%d out of bounds [%d-%d]", start, end, min, max)
		}

		for v := start; v <= end; v += step {
			set |= 1 << uint(v)
		}
	}

	if set == 0 {
		return 0, fmt.Errorf("empty field %q", field)
	}
	return set, nil
}

// Next returns the next matching time strictly after t, minute resolution.
func (cs *CronSchedule) Next(t time.Time) time.Time {
	next := t.Add(time.Minute).Truncate(time.Minute)

	// Bounded scan: a valid 5-field expression matches within a year.
	limit := next.AddDate(1, 0, 1)
	for next.Before(limit) {
		if cs.matches(next) {
			return next
		}
		next = next.Add(time.Minute)
	}

	return time.Time{}
}

func (cs *CronSchedule) matches(t time.Time) bool {
	if cs.minutes&(1<<uint(t.Minute())) == 0 ||
		cs.hours&(1<<uint(t.Hour())) == 0 ||
		cs.months&(1<<uint(int(t.Month()))) == 0 {
		return false
	}

	dayMatch := cs.days&(1<<uint(t.Day())) != 0
	weekdayMatch := cs.weekdays&(1<<uint(int(t.Weekday()))) != 0

	// Vixie rule: both restricted means either may fire the schedule.
	if cs.daysRestricted && cs.weekdaysRestricted {
		return dayMatch || weekdayMatch
	}
	return dayMatch && weekdayMatch
}

// String returns the original expression.
func (cs *CronSchedule) String() string {
	return cs.raw
}
