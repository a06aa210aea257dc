// Package timeutil provides pure calendar helpers used by the reminder
// scheduler and the adherence tracker. All functions are deterministic for a
// given input time and operate in that time's location, so callers control
// whether arithmetic happens in local time or UTC.
package timeutil

import "time"

// Day is the length of one calendar day used for duration-based arithmetic.
const Day = 24 * time.Hour

// StartOfDay floors t to midnight (00:00:00.000) of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay ceils t to the last representable millisecond of its calendar day
// (23:59:59.999). The millisecond resolution matches what the history store
// keeps for timestamps.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// AtTimeOfDay returns the instant at hour:minute:00.000 on the same calendar
// day as ref. Out-of-range components are not rejected; time.Date normalises
// them (hour 25 rolls into the next day), which is the documented policy for
// invalid input.
func AtTimeOfDay(ref time.Time, hour, minute int) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, ref.Location())
}

// DateOf builds the instant at midnight for the given calendar date in loc.
// month is 1-based (time.January == 1).
func DateOf(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// IsToday reports whether t falls within the same calendar day as now.
func IsToday(t, now time.Time) bool {
	start := StartOfDay(now)
	end := EndOfDay(now)
	return !t.Before(start) && !t.After(end)
}

// IsPast reports whether t is strictly before now.
func IsPast(t, now time.Time) bool { return t.Before(now) }

// IsFuture reports whether t is strictly after now.
func IsFuture(t, now time.Time) bool { return t.After(now) }

// DaysBetween returns the number of whole 24h periods between a and b,
// regardless of order.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(d / Day)
}

// AddDays shifts t by n calendar days (n may be negative). Calendar addition
// is used rather than adding fixed 24h durations so the time-of-day survives
// DST transitions.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// NextDailyOccurrence maps an instant to its next daily occurrence relative
// to now: the same time-of-day today, or tomorrow if that has already passed.
// A reminder instant equal to now is considered passed, so the result is
// always strictly after now.
func NextDailyOccurrence(instant, now time.Time) time.Time {
	h, min, _ := instant.Clock()
	next := AtTimeOfDay(now, h, min)
	if !next.After(now) {
		next = AddDays(next, 1)
	}
	return next
}
