package schedule

import (
	"time"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
	"github.com/dosebuddy/dosebuddy-server/internal/timeutil"
)

// ReminderTimesOfDay resolves the times-of-day at which a medication should
// remind. Explicit specific times take precedence over the frequency's
// defaults; AS_NEEDED medications never remind, regardless of any other
// configuration.
func ReminderTimesOfDay(m *model.Medication) []model.TimeOfDay {
	if m.Frequency == model.FrequencyAsNeeded {
		return nil
	}
	if len(m.SpecificTimes) > 0 {
		return m.SpecificTimes
	}
	return m.Frequency.DefaultReminderTimes(m.EffectiveTimesPerDay())
}

// DeriveToday produces the ordered set of reminder instants for the calendar
// day of now. The instants are derived values: they are recomputed from the
// medication's configuration on every (re)schedule and never persisted.
// Default times with hours past 23 (integer-spaced custom schedules wrapping
// midnight) normalise into the following day, preserving their spacing.
func DeriveToday(m *model.Medication, now time.Time) []time.Time {
	times := ReminderTimesOfDay(m)
	if len(times) == 0 {
		return nil
	}

	instants := make([]time.Time, 0, len(times))
	for _, t := range times {
		instants = append(instants, timeutil.AtTimeOfDay(now, t.Hour, t.Minute))
	}
	return instants
}
