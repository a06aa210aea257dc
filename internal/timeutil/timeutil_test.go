package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAndEndOfDay(t *testing.T) {
	ref := time.Date(2025, time.March, 14, 13, 45, 12, 500, time.UTC)

	start := StartOfDay(ref)
	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), start)

	end := EndOfDay(ref)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.True(t, end.After(ref))
	assert.True(t, end.Before(StartOfDay(ref.AddDate(0, 0, 1))))
}

func TestAtTimeOfDay(t *testing.T) {
	ref := time.Date(2025, time.March, 14, 13, 45, 0, 0, time.UTC)

	at := AtTimeOfDay(ref, 8, 30)
	assert.Equal(t, time.Date(2025, time.March, 14, 8, 30, 0, 0, time.UTC), at)

	// Out-of-range hours normalise into the following day.
	rolled := AtTimeOfDay(ref, 28, 0)
	assert.Equal(t, time.Date(2025, time.March, 15, 4, 0, 0, 0, time.UTC), rolled)
}

func TestIsToday(t *testing.T) {
	now := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsToday(StartOfDay(now), now))
	assert.True(t, IsToday(EndOfDay(now), now))
	assert.False(t, IsToday(now.AddDate(0, 0, -1), now))
	assert.False(t, IsToday(StartOfDay(now.AddDate(0, 0, 1)), now))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 4, DaysBetween(a, b))
	assert.Equal(t, 4, DaysBetween(b, a)) // order-independent
	assert.Equal(t, 0, DaysBetween(a, a.Add(23*time.Hour)))
}

func TestNextDailyOccurrence(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	t.Run("future time stays today", func(t *testing.T) {
		instant := time.Date(2025, time.March, 14, 20, 0, 0, 0, time.UTC)
		next := NextDailyOccurrence(instant, now)
		require.Equal(t, time.Date(2025, time.March, 14, 20, 0, 0, 0, time.UTC), next)
	})

	t.Run("passed time rolls to tomorrow", func(t *testing.T) {
		instant := time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)
		next := NextDailyOccurrence(instant, now)
		require.Equal(t, time.Date(2025, time.March, 15, 8, 0, 0, 0, time.UTC), next)
	})

	t.Run("exactly now counts as passed", func(t *testing.T) {
		next := NextDailyOccurrence(now, now)
		require.True(t, next.After(now))
		require.Equal(t, now.AddDate(0, 0, 1), next)
	})

	t.Run("source date is irrelevant", func(t *testing.T) {
		instant := time.Date(1999, time.January, 1, 20, 0, 0, 0, time.UTC)
		next := NextDailyOccurrence(instant, now)
		require.Equal(t, time.Date(2025, time.March, 14, 20, 0, 0, 0, time.UTC), next)
	})
}
