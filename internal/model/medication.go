package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Bounds accepted for an explicit times-per-day value.
const (
	MinTimesPerDay = 1
	MaxTimesPerDay = 10
)

// ErrInvalidMedication is wrapped by all medication validation failures so
// handlers can map them to a 400 without string matching.
var ErrInvalidMedication = errors.New("invalid medication")

// Medication represents one medication a user is tracking, together with the
// dosing schedule reminders are derived from.
//
// Fields:
//
//	ID            – primary key identifier.
//	UserID        – owning user.
//	Name          – display name ("Aspirin").
//	Dosage        – free-text dose ("100mg", "2 tablets").
//	Frequency     – dosing cadence classification.
//	TimesPerDay   – dose count; meaningful for CUSTOM, derived otherwise.
//	SpecificTimes – optional explicit reminder times; when present they take
//	                precedence over the frequency's default times.
//	StartDate     – date the course starts.
//	EndDate       – optional date the course ends (never before StartDate).
//	Notes         – optional free text.
//	IsActive      – soft-delete flag; inactive medications keep their history
//	                but produce no reminders.
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Medication struct {
	ID            uint64      // medications.id
	UserID        uint64      // medications.user_id
	Name          string      // medications.name
	Dosage        string      // medications.dosage
	Frequency     Frequency   // medications.frequency
	TimesPerDay   int         // medications.times_per_day
	SpecificTimes []TimeOfDay // medications.specific_times (JSON array of "HH:MM")
	StartDate     time.Time   // medications.start_date
	EndDate       *time.Time  // medications.end_date (nullable)
	Notes         string      // medications.notes
	IsActive      bool        // medications.is_active
	CreatedAt     time.Time   // medications.created_at
	UpdatedAt     time.Time   // medications.updated_at
}

// Validate checks the invariants that must hold before a medication is
// persisted or scheduled. Violations are reported synchronously and nothing
// is partially applied.
func (m *Medication) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMedication)
	}
	if strings.TrimSpace(m.Dosage) == "" {
		return fmt.Errorf("%w: dosage is required", ErrInvalidMedication)
	}
	if !m.Frequency.IsValid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidMedication, m.Frequency)
	}
	if m.Frequency == FrequencyCustom && m.TimesPerDay == 0 {
		return fmt.Errorf("%w: custom frequency requires times per day", ErrInvalidMedication)
	}
	if m.TimesPerDay != 0 && (m.TimesPerDay < MinTimesPerDay || m.TimesPerDay > MaxTimesPerDay) {
		return fmt.Errorf("%w: times per day must be between %d and %d",
			ErrInvalidMedication, MinTimesPerDay, MaxTimesPerDay)
	}
	if m.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidMedication)
	}
	if m.EndDate != nil && m.EndDate.Before(m.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidMedication)
	}
	return nil
}

// EffectiveTimesPerDay resolves the dose count, falling back to the
// frequency's implied count when the medication does not carry an explicit
// one.
func (m *Medication) EffectiveTimesPerDay() int {
	if m.TimesPerDay > 0 {
		return m.TimesPerDay
	}
	return m.Frequency.DefaultTimesPerDay()
}
