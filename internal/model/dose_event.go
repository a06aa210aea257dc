package model

import (
	"strings"
	"time"
)

// OnTimeWindow is the tolerance around a scheduled reminder instant within
// which a taken dose still counts as on time.
const OnTimeWindow = 30 * time.Minute

// TakenMethod records how a dose event was captured.
type TakenMethod string

const (
	TakenMethodReminder     TakenMethod = "REMINDER"     // tapped "take now" on a reminder
	TakenMethodManual       TakenMethod = "MANUAL"       // entered by hand in the app
	TakenMethodNotification TakenMethod = "NOTIFICATION" // notification action button
)

// ParseTakenMethod maps a stored string onto a TakenMethod, defaulting to
// MANUAL for unknown values.
func ParseTakenMethod(s string) TakenMethod {
	switch TakenMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case TakenMethodReminder:
		return TakenMethodReminder
	case TakenMethodNotification:
		return TakenMethodNotification
	default:
		return TakenMethodManual
	}
}

// DoseEvent is one immutable history record of a medication being taken. The
// medication name and dosage are denormalised snapshots so history stays
// meaningful after the medication is edited or soft-deleted.
//
// Fields:
//
//	ID                 – primary key identifier.
//	UserID             – owning user.
//	MedicationID       – medication the dose belongs to.
//	MedicationName     – name snapshot at recording time.
//	MedicationDosage   – dosage snapshot at recording time.
//	ScheduledTime      – reminder instant the dose answers, nil when the dose
//	                     was taken outside any expected schedule.
//	TakenAt            – when the dose was actually taken.
//	TakenMethod        – how the event was captured.
//	IsOnTime           – derived: within OnTimeWindow of ScheduledTime.
//	Notes              – optional free text.
//	CreatedAt          – row creation timestamp.
type DoseEvent struct {
	ID               uint64      // medication_history.id
	UserID           uint64      // medication_history.user_id
	MedicationID     uint64      // medication_history.medication_id
	MedicationName   string      // medication_history.medication_name
	MedicationDosage string      // medication_history.medication_dosage
	ScheduledTime    *time.Time  // medication_history.scheduled_time (nullable)
	TakenAt          time.Time   // medication_history.taken_at
	TakenMethod      TakenMethod // medication_history.taken_method
	IsOnTime         bool        // medication_history.is_on_time
	Notes            string      // medication_history.notes
	CreatedAt        time.Time   // medication_history.created_at
}

// ComputeOnTime classifies a taken time against an optional scheduled time.
// A dose with no scheduled time is on time by definition; otherwise it must
// fall within OnTimeWindow of the schedule, inclusive at the boundary.
func ComputeOnTime(scheduled *time.Time, takenAt time.Time) bool {
	if scheduled == nil {
		return true
	}
	diff := takenAt.Sub(*scheduled)
	if diff < 0 {
		diff = -diff
	}
	return diff <= OnTimeWindow
}

// RecomputeOnTime refreshes the derived flag after scheduled/taken time
// changes. History records are append-only in practice, but the flag must
// never disagree with the times it was derived from.
func (e *DoseEvent) RecomputeOnTime() {
	e.IsOnTime = ComputeOnTime(e.ScheduledTime, e.TakenAt)
}
