// Package history owns adherence tracking: appending immutable dose-event
// records and computing summary statistics over them. The scheduler never
// touches these records.
package history

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
)

// EventStore is the slice of the persistent store the recorder appends to.
type EventStore interface {
	InsertDoseEvent(ctx context.Context, e model.DoseEvent) (uint64, error)
}

// RecordedPublisher fans a persisted dose event out (message queue). A nil
// publisher disables fan-out.
type RecordedPublisher interface {
	DoseRecorded(ctx context.Context, e model.DoseEvent)
}

// Recorder appends dose events to history. Recording is fire-and-forget:
// the event is built and classified synchronously, then handed to a single
// background worker for persistence. Store failures are logged, never
// surfaced to the caller and never retried — an accepted at-most-once
// best-effort semantic, the same contract the UI has always had.
type Recorder struct {
	store     EventStore
	publisher RecordedPublisher
	now       func() time.Time

	ch        chan model.DoseEvent
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder starts the recorder's worker. Call Close on shutdown to drain
// pending writes.
func NewRecorder(store EventStore, publisher RecordedPublisher) *Recorder {
	r := &Recorder{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		ch:        make(chan model.DoseEvent, 128),
	}

	r.wg.Add(1)
	go r.run()
	return r
}

// Record captures one dose being taken. The medication's name and dosage are
// snapshotted into the record so history survives later edits and deletions.
// scheduled is nil for doses taken outside any expected schedule; such doses
// are on time by definition. The returned event is the built record before
// persistence (its ID is assigned by the store asynchronously).
func (r *Recorder) Record(userID uint64, m *model.Medication, takenAt time.Time,
	method model.TakenMethod, scheduled *time.Time, notes string) model.DoseEvent {

	e := model.DoseEvent{
		UserID:           userID,
		MedicationID:     m.ID,
		MedicationName:   m.Name,
		MedicationDosage: m.Dosage,
		ScheduledTime:    scheduled,
		TakenAt:          takenAt,
		TakenMethod:      method,
		IsOnTime:         model.ComputeOnTime(scheduled, takenAt),
		Notes:            strings.TrimSpace(notes),
		CreatedAt:        r.now(),
	}

	r.ch <- e
	return e
}

// Close drains queued events and stops the worker.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() { close(r.ch) })
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()

	for e := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		id, err := r.store.InsertDoseEvent(ctx, e)
		if err != nil {
			log.Printf("recorder: insert dose event for %s failed: %v", e.MedicationName, err)
			cancel()
			continue
		}
		e.ID = id
		log.Printf("recorder: recorded %s taken at %s", e.MedicationName, e.TakenAt.Format("15:04"))

		if r.publisher != nil {
			r.publisher.DoseRecorded(ctx, e)
		}
		cancel()
	}
}
