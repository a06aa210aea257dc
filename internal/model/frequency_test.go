package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFrequency(t *testing.T) {
	assert.Equal(t, FrequencyTwiceDaily, ParseFrequency("TWICE_DAILY"))
	assert.Equal(t, FrequencyTwiceDaily, ParseFrequency(" twice_daily "))
	assert.Equal(t, FrequencyAsNeeded, ParseFrequency("as_needed"))

	// Unknown and empty fall back rather than fail.
	assert.Equal(t, FrequencyOnceDaily, ParseFrequency("HOURLY"))
	assert.Equal(t, FrequencyOnceDaily, ParseFrequency(""))
}

func TestDefaultTimesPerDay(t *testing.T) {
	assert.Equal(t, 1, FrequencyOnceDaily.DefaultTimesPerDay())
	assert.Equal(t, 2, FrequencyTwiceDaily.DefaultTimesPerDay())
	assert.Equal(t, 3, FrequencyThreeTimesDaily.DefaultTimesPerDay())
	assert.Equal(t, 4, FrequencyFourTimesDaily.DefaultTimesPerDay())
	assert.Equal(t, 0, FrequencyAsNeeded.DefaultTimesPerDay())
	assert.Equal(t, 1, FrequencyWeekly.DefaultTimesPerDay())
	assert.Equal(t, 1, FrequencyEveryOtherDay.DefaultTimesPerDay())
}

func TestDefaultReminderTimesFixedCadences(t *testing.T) {
	assert.Equal(t, []TimeOfDay{{Hour: 8}}, FrequencyOnceDaily.DefaultReminderTimes(1))
	assert.Equal(t, []TimeOfDay{{Hour: 8}, {Hour: 20}}, FrequencyTwiceDaily.DefaultReminderTimes(2))
	assert.Equal(t, []TimeOfDay{{Hour: 8}, {Hour: 14}, {Hour: 20}},
		FrequencyThreeTimesDaily.DefaultReminderTimes(3))
	assert.Equal(t, []TimeOfDay{{Hour: 8}, {Hour: 12}, {Hour: 16}, {Hour: 20}},
		FrequencyFourTimesDaily.DefaultReminderTimes(4))
}

func TestDefaultReminderTimesAsNeeded(t *testing.T) {
	assert.Nil(t, FrequencyAsNeeded.DefaultReminderTimes(3))
}

func TestDefaultReminderTimesEvenSpacing(t *testing.T) {
	// CUSTOM spaces from 08:00 at 24/n whole hours.
	assert.Equal(t, []TimeOfDay{{Hour: 8}, {Hour: 20}}, FrequencyCustom.DefaultReminderTimes(2))
	assert.Equal(t, []TimeOfDay{{Hour: 8}, {Hour: 16}, {Hour: 24}}, FrequencyCustom.DefaultReminderTimes(3))

	// Non-divisors truncate: 24/5 = 4h spacing.
	assert.Equal(t,
		[]TimeOfDay{{Hour: 8}, {Hour: 12}, {Hour: 16}, {Hour: 20}, {Hour: 24}},
		FrequencyCustom.DefaultReminderTimes(5))

	// Zero and negative counts clamp to a single slot.
	assert.Equal(t, []TimeOfDay{{Hour: 8}}, FrequencyCustom.DefaultReminderTimes(0))
	assert.Equal(t, []TimeOfDay{{Hour: 8}}, FrequencyWeekly.DefaultReminderTimes(-2))
}
