package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMedication() Medication {
	return Medication{
		UserID:    1,
		Name:      "Aspirin",
		Dosage:    "100mg",
		Frequency: FrequencyOnceDaily,
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func TestMedicationValidate(t *testing.T) {
	m := validMedication()
	require.NoError(t, m.Validate())

	t.Run("name required", func(t *testing.T) {
		m := validMedication()
		m.Name = "  "
		assert.ErrorIs(t, m.Validate(), ErrInvalidMedication)
	})

	t.Run("dosage required", func(t *testing.T) {
		m := validMedication()
		m.Dosage = ""
		assert.ErrorIs(t, m.Validate(), ErrInvalidMedication)
	})

	t.Run("frequency must be known", func(t *testing.T) {
		m := validMedication()
		m.Frequency = Frequency("HOURLY")
		assert.ErrorIs(t, m.Validate(), ErrInvalidMedication)
	})

	t.Run("custom needs times per day", func(t *testing.T) {
		m := validMedication()
		m.Frequency = FrequencyCustom
		assert.ErrorIs(t, m.Validate(), ErrInvalidMedication)

		m.TimesPerDay = 5
		assert.NoError(t, m.Validate())
	})

	t.Run("times per day bounds", func(t *testing.T) {
		m := validMedication()
		m.TimesPerDay = MaxTimesPerDay + 1
		assert.ErrorIs(t, m.Validate(), ErrInvalidMedication)

		m.TimesPerDay = MaxTimesPerDay
		assert.NoError(t, m.Validate())
	})

	t.Run("start date required", func(t *testing.T) {
		m := validMedication()
		m.StartDate = time.Time{}
		assert.ErrorIs(t, m.Validate(), ErrInvalidMedication)
	})

	t.Run("end date may not precede start", func(t *testing.T) {
		m := validMedication()
		end := m.StartDate.AddDate(0, 0, -1)
		m.EndDate = &end
		assert.ErrorIs(t, m.Validate(), ErrInvalidMedication)

		end = m.StartDate
		m.EndDate = &end
		assert.NoError(t, m.Validate())
	})
}

func TestEffectiveTimesPerDay(t *testing.T) {
	m := validMedication()
	m.Frequency = FrequencyThreeTimesDaily
	assert.Equal(t, 3, m.EffectiveTimesPerDay())

	m.TimesPerDay = 5
	assert.Equal(t, 5, m.EffectiveTimesPerDay())
}
