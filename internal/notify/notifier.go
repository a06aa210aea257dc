// Package notify delivers fired reminders to the user. The scheduler core
// only talks to the Presenter interface; delivery transports (Pushover, or
// plain logs in development) are implementations behind it.
package notify

import (
	"context"
	"log"
	"time"
)

// Reminder is the payload a fired request presents to the user.
type Reminder struct {
	MedicationID uint64
	UserID       uint64
	Name         string
	Dosage       string
	ScheduledAt  time.Time
}

// Presenter displays a fired reminder to the user. Implementations own their
// retry/timeout policy; callers log and move on when presentation fails.
type Presenter interface {
	Present(ctx context.Context, r Reminder) error
}

// LogPresenter writes reminders to the process log. It is the fallback when
// no push transport is configured (local development, tests).
type LogPresenter struct{}

// Present implements Presenter.
func (LogPresenter) Present(_ context.Context, r Reminder) error {
	log.Printf("reminder: take %s (%s) — scheduled %s (user %d)",
		r.Name, r.Dosage, r.ScheduledAt.Format("15:04"), r.UserID)
	return nil
}
