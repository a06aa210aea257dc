// Package schedule contains the reminder scheduling core: deriving concrete
// reminder instants from a medication's dosing configuration and keeping the
// external scheduling collaborator in sync with it.
package schedule

import "time"

// Payload is the data a fire request carries back when it fires. It is
// self-contained so a reminder can be presented even while the database is
// briefly unavailable; only the active re-check needs the store.
type Payload struct {
	MedicationID uint64 `json:"medication_id"`
	UserID       uint64 `json:"user_id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
}

// RequestHandle identifies one pending fire request at the scheduler.
type RequestHandle string

// FireFunc is invoked by the scheduler when a request fires. scheduledAt is
// the instant the request was due, not the wall-clock moment of delivery.
type FireFunc func(p Payload, scheduledAt time.Time)

// Scheduler is the external scheduling collaborator. The production
// implementation is CronScheduler; tests substitute a fake. Retry and
// timeout policy belong to the implementation, not to callers.
type Scheduler interface {
	// Submit registers a daily-recurring fire request at fireAt's
	// time-of-day, tagged for bulk cancellation.
	Submit(fireAt time.Time, tag string, p Payload) (RequestHandle, error)

	// SubmitOnce registers a single one-shot fire request after delay,
	// used for snoozes.
	SubmitOnce(delay time.Duration, tag string, p Payload) (RequestHandle, error)

	// CancelByTag removes every pending request carrying the tag.
	CancelByTag(tag string)
}
