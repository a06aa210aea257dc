package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
)

func medication(freq model.Frequency) *model.Medication {
	return &model.Medication{
		ID:        1,
		UserID:    1,
		Name:      "Aspirin",
		Dosage:    "100mg",
		Frequency: freq,
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func TestReminderTimesOfDay(t *testing.T) {
	t.Run("frequency defaults when no explicit times", func(t *testing.T) {
		got := ReminderTimesOfDay(medication(model.FrequencyTwiceDaily))
		assert.Equal(t, []model.TimeOfDay{{Hour: 8}, {Hour: 20}}, got)
	})

	t.Run("explicit times take precedence", func(t *testing.T) {
		m := medication(model.FrequencyTwiceDaily)
		m.SpecificTimes = []model.TimeOfDay{{Hour: 9, Minute: 15}}
		got := ReminderTimesOfDay(m)
		assert.Equal(t, []model.TimeOfDay{{Hour: 9, Minute: 15}}, got)
	})

	t.Run("as needed never reminds", func(t *testing.T) {
		m := medication(model.FrequencyAsNeeded)
		m.SpecificTimes = []model.TimeOfDay{{Hour: 9}}
		assert.Nil(t, ReminderTimesOfDay(m))
	})
}

func TestDeriveToday(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	t.Run("three times daily", func(t *testing.T) {
		got := DeriveToday(medication(model.FrequencyThreeTimesDaily), now)
		require.Len(t, got, 3)
		assert.Equal(t, time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC), got[0])
		assert.Equal(t, time.Date(2025, time.March, 14, 14, 0, 0, 0, time.UTC), got[1])
		assert.Equal(t, time.Date(2025, time.March, 14, 20, 0, 0, 0, time.UTC), got[2])
	})

	t.Run("as needed derives nothing", func(t *testing.T) {
		assert.Nil(t, DeriveToday(medication(model.FrequencyAsNeeded), now))
	})

	t.Run("wrapping default hours roll into tomorrow", func(t *testing.T) {
		m := medication(model.FrequencyCustom)
		m.TimesPerDay = 3 // 08, 16, 24
		got := DeriveToday(m, now)
		require.Len(t, got, 3)
		assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), got[2])
	})
}
