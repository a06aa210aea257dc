package queue_publisher

import (
	"context"
	"time"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
	"github.com/dosebuddy/dosebuddy-server/internal/queue"
	"github.com/dosebuddy/dosebuddy-server/internal/schedule"
)

// ReminderEvents adapts the dispatcher's fan-out hook onto the broker.
// Publish failures are already logged by the publish path and deliberately
// not surfaced; a broker outage must never block a reminder.
type ReminderEvents struct{}

func (ReminderEvents) ReminderFired(ctx context.Context, p schedule.Payload, scheduledAt time.Time) {
	_ = PublishReminderFired(ctx, queue.ReminderFiredEvent{
		MedicationID: p.MedicationID,
		UserID:       p.UserID,
		Name:         p.Name,
		Dosage:       p.Dosage,
		ScheduledAt:  scheduledAt.UTC().Format(time.RFC3339),
		FiredAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

// HistoryEvents adapts the recorder's fan-out hook onto the broker.
type HistoryEvents struct{}

func (HistoryEvents) DoseRecorded(ctx context.Context, e model.DoseEvent) {
	_ = PublishDoseRecorded(ctx, queue.DoseRecordedEvent{
		EventID:      e.ID,
		MedicationID: e.MedicationID,
		UserID:       e.UserID,
		Name:         e.MedicationName,
		Dosage:       e.MedicationDosage,
		TakenAt:      e.TakenAt.UTC().Format(time.RFC3339),
		TakenMethod:  string(e.TakenMethod),
		OnTime:       e.IsOnTime,
	})
}
