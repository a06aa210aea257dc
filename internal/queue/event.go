// Package queue defines message payloads exchanged over the message broker.
package queue

// ReminderFiredEvent is published every time a reminder actually fires for an
// active medication.  It carries enough information for downstream consumers
// to log, notify, or feed analytics without querying the primary database.
type ReminderFiredEvent struct {
	MedicationID uint64 `json:"medication_id"`
	UserID       uint64 `json:"user_id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	ScheduledAt  string `json:"scheduled_at"`
	FiredAt      string `json:"fired_at"`
}

// DoseRecordedEvent is published after a dose-taken record has been written
// to history.  The name and dosage are snapshots taken at recording time.
type DoseRecordedEvent struct {
	EventID      uint64 `json:"event_id,omitempty"`
	MedicationID uint64 `json:"medication_id"`
	UserID       uint64 `json:"user_id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	TakenAt      string `json:"taken_at"`
	TakenMethod  string `json:"taken_method"`
	OnTime       bool   `json:"on_time"`
}
