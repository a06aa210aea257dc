// Package model defines the domain entities of the medication reminder
// service: users, medications with their dosing schedules, and the immutable
// dose-event history records used for adherence tracking.
package model

import "strings"

// Frequency classifies how often a medication is taken. Values are stored in
// the database as their string form, so the constants must stay stable.
type Frequency string

const (
	FrequencyOnceDaily       Frequency = "ONCE_DAILY"
	FrequencyTwiceDaily      Frequency = "TWICE_DAILY"
	FrequencyThreeTimesDaily Frequency = "THREE_TIMES_DAILY"
	FrequencyFourTimesDaily  Frequency = "FOUR_TIMES_DAILY"
	FrequencyEveryOtherDay   Frequency = "EVERY_OTHER_DAY"
	FrequencyWeekly          Frequency = "WEEKLY"
	FrequencyAsNeeded        Frequency = "AS_NEEDED"
	FrequencyCustom          Frequency = "CUSTOM"
)

// ParseFrequency maps a stored or client-provided string onto a Frequency.
// Unknown or empty values fall back to ONCE_DAILY rather than failing, so a
// malformed row never breaks scheduling for the rest of the user's list.
func ParseFrequency(s string) Frequency {
	switch Frequency(strings.ToUpper(strings.TrimSpace(s))) {
	case FrequencyOnceDaily, FrequencyTwiceDaily, FrequencyThreeTimesDaily,
		FrequencyFourTimesDaily, FrequencyEveryOtherDay, FrequencyWeekly,
		FrequencyAsNeeded, FrequencyCustom:
		return Frequency(strings.ToUpper(strings.TrimSpace(s)))
	default:
		return FrequencyOnceDaily
	}
}

// IsValid reports whether f is one of the known classifications.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyOnceDaily, FrequencyTwiceDaily, FrequencyThreeTimesDaily,
		FrequencyFourTimesDaily, FrequencyEveryOtherDay, FrequencyWeekly,
		FrequencyAsNeeded, FrequencyCustom:
		return true
	}
	return false
}

// DefaultTimesPerDay returns the dose count implied by the classification.
// CUSTOM carries no implied count (the medication must say), and the
// sub-daily cadences (weekly, every other day) still mean one dose on the
// days they apply, so they report 1.
func (f Frequency) DefaultTimesPerDay() int {
	switch f {
	case FrequencyTwiceDaily:
		return 2
	case FrequencyThreeTimesDaily:
		return 3
	case FrequencyFourTimesDaily:
		return 4
	case FrequencyAsNeeded:
		return 0
	default:
		return 1
	}
}

// DefaultReminderTimes returns the built-in times-of-day for f when a
// medication has no explicit times. The four fixed daily cadences use the
// literal clinical defaults; EVERY_OTHER_DAY, WEEKLY and CUSTOM space
// max(1, timesPerDay) slots from 08:00 at 24/n whole hours. The integer-hour
// division truncates (n=5 gives 4h spacing covering 16h); that behaviour is
// kept as-is because correcting it would silently move reminder times for
// existing custom schedules. AS_NEEDED medications never get reminder times.
func (f Frequency) DefaultReminderTimes(timesPerDay int) []TimeOfDay {
	switch f {
	case FrequencyAsNeeded:
		return nil
	case FrequencyOnceDaily:
		return []TimeOfDay{{Hour: 8}}
	case FrequencyTwiceDaily:
		return []TimeOfDay{{Hour: 8}, {Hour: 20}}
	case FrequencyThreeTimesDaily:
		return []TimeOfDay{{Hour: 8}, {Hour: 14}, {Hour: 20}}
	case FrequencyFourTimesDaily:
		return []TimeOfDay{{Hour: 8}, {Hour: 12}, {Hour: 16}, {Hour: 20}}
	}

	n := timesPerDay
	if n < 1 {
		n = 1
	}
	interval := 24 / n

	times := make([]TimeOfDay, 0, n)
	for i := 0; i < n; i++ {
		// Hours past 23 are carried as-is; converting a TimeOfDay to an
		// instant normalises them into the following day, matching the
		// roll-over behaviour reminders have always had.
		times = append(times, TimeOfDay{Hour: 8 + i*interval})
	}
	return times
}
