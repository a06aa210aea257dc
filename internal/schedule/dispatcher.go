package schedule

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
	"github.com/dosebuddy/dosebuddy-server/internal/notify"
	"github.com/dosebuddy/dosebuddy-server/internal/timeutil"
)

// Tag prefixes for pending fire requests. Regular reminders and snoozes use
// disjoint tags so rescheduling a medication never cancels an in-flight
// snooze; full cancellation (deletion/deactivation) removes both.
const (
	reminderTagPrefix = "medication_reminder_"
	snoozeTagPrefix   = "medication_snooze_"
)

// DefaultSnoozeMinutes is the snooze delay used when a client does not ask
// for a specific one.
const DefaultSnoozeMinutes = 15

// ReminderTag returns the bulk-cancellation tag for a medication's recurring
// reminders.
func ReminderTag(medicationID uint64) string {
	return fmt.Sprintf("%s%d", reminderTagPrefix, medicationID)
}

// SnoozeTag returns the bulk-cancellation tag for a medication's snoozes.
func SnoozeTag(medicationID uint64) string {
	return fmt.Sprintf("%s%d", snoozeTagPrefix, medicationID)
}

// MedicationGetter is the slice of the persistent store the dispatcher needs
// at fire time to re-verify that a medication still exists and is active.
type MedicationGetter interface {
	GetByID(ctx context.Context, id uint64) (model.Medication, error)
}

// EventPublisher receives a notification-worthy fire after the active
// re-check passed. Implementations fan the event out (message queue); a nil
// publisher disables fan-out.
type EventPublisher interface {
	ReminderFired(ctx context.Context, p Payload, scheduledAt time.Time)
}

// Dispatcher keeps the external scheduler in sync with medication
// configuration: for an active medication exactly one pending fire request
// exists per derived reminder instant, recurring daily, with cancel+replace
// semantics on every change.
//
// Operations for the same medication id are serialized through a
// per-medication mutex so a concurrent cancel cannot interleave with a
// resubmit and leave duplicate or orphaned requests. Different medications
// proceed in parallel.
type Dispatcher struct {
	scheduler Scheduler
	meds      MedicationGetter
	presenter notify.Presenter
	publisher EventPublisher // optional
	now       func() time.Time

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewDispatcher wires a dispatcher. presenter and publisher may be nil; the
// dispatcher then only logs fires.
func NewDispatcher(s Scheduler, meds MedicationGetter, presenter notify.Presenter, publisher EventPublisher) *Dispatcher {
	return &Dispatcher{
		scheduler: s,
		meds:      meds,
		presenter: presenter,
		publisher: publisher,
		now:       time.Now,
		locks:     map[uint64]*sync.Mutex{},
	}
}

// lockFor returns the serialization mutex for one medication id.
func (d *Dispatcher) lockFor(medicationID uint64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.locks[medicationID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[medicationID] = l
	}
	return l
}

// Schedule replaces the medication's pending recurring requests with a fresh
// set derived from its current configuration. Each derived instant is rolled
// forward to its next occurrence (today, or tomorrow if already passed) and
// submitted as one daily-recurring fire request. An empty derived set
// (as-needed, inactive) submits nothing. Scheduler failures are logged and
// skipped; the scheduler owns its own retry policy.
func (d *Dispatcher) Schedule(m *model.Medication) int {
	l := d.lockFor(m.ID)
	l.Lock()
	defer l.Unlock()

	// Replace only the recurring set. An in-flight snooze survives a
	// reschedule; it dies with Cancel.
	d.scheduler.CancelByTag(ReminderTag(m.ID))

	if !m.IsActive {
		return 0
	}

	now := d.now()
	payload := Payload{
		MedicationID: m.ID,
		UserID:       m.UserID,
		Name:         m.Name,
		Dosage:       m.Dosage,
	}

	submitted := 0
	for _, instant := range DeriveToday(m, now) {
		fireAt := timeutil.NextDailyOccurrence(instant, now)
		if _, err := d.scheduler.Submit(fireAt, ReminderTag(m.ID), payload); err != nil {
			log.Printf("dispatcher: submit %s at %s failed: %v", m.Name, fireAt.Format("15:04"), err)
			continue
		}
		submitted++
	}

	if submitted > 0 {
		log.Printf("dispatcher: scheduled %d reminder(s) for %s", submitted, m.Name)
	}
	return submitted
}

// Reschedule is Schedule; the cancel+recompute semantics already make it the
// right call after any edit.
func (d *Dispatcher) Reschedule(m *model.Medication) int {
	return d.Schedule(m)
}

// Cancel removes every pending request for the medication, recurring and
// snooze alike. Used when a medication is deleted or deactivated.
func (d *Dispatcher) Cancel(medicationID uint64) {
	l := d.lockFor(medicationID)
	l.Lock()
	defer l.Unlock()

	d.scheduler.CancelByTag(ReminderTag(medicationID))
	d.scheduler.CancelByTag(SnoozeTag(medicationID))
	log.Printf("dispatcher: cancelled reminders for medication %d", medicationID)
}

// Snooze submits a single one-shot fire request after the given number of
// minutes, tagged separately from the recurring set. minutes <= 0 falls back
// to DefaultSnoozeMinutes.
func (d *Dispatcher) Snooze(medicationID, userID uint64, name, dosage string, minutes int) {
	if minutes <= 0 {
		minutes = DefaultSnoozeMinutes
	}

	l := d.lockFor(medicationID)
	l.Lock()
	defer l.Unlock()

	payload := Payload{
		MedicationID: medicationID,
		UserID:       userID,
		Name:         name,
		Dosage:       dosage,
	}
	delay := time.Duration(minutes) * time.Minute
	if _, err := d.scheduler.SubmitOnce(delay, SnoozeTag(medicationID), payload); err != nil {
		log.Printf("dispatcher: snooze %s failed: %v", name, err)
		return
	}
	log.Printf("dispatcher: snoozed %s for %d minute(s)", name, minutes)
}

// HandleFire is the FireFunc given to the scheduler. The medication may have
// been deleted or deactivated after the request was queued, so it is
// re-verified first; a stale fire is a silent no-op. Presentation and
// fan-out failures are logged, never retried here.
func (d *Dispatcher) HandleFire(p Payload, scheduledAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m, err := d.meds.GetByID(ctx, p.MedicationID)
	if err != nil {
		log.Printf("dispatcher: fire for medication %d dropped: %v", p.MedicationID, err)
		return
	}
	if !m.IsActive {
		return
	}

	if d.presenter != nil {
		r := notify.Reminder{
			MedicationID: p.MedicationID,
			UserID:       p.UserID,
			Name:         p.Name,
			Dosage:       p.Dosage,
			ScheduledAt:  scheduledAt,
		}
		if err := d.presenter.Present(ctx, r); err != nil {
			log.Printf("dispatcher: present reminder for %s failed: %v", p.Name, err)
		}
	}

	if d.publisher != nil {
		d.publisher.ReminderFired(ctx, p, scheduledAt)
	}
}
