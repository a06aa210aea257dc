package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
	"github.com/dosebuddy/dosebuddy-server/internal/notify"
)

// fakeScheduler records submissions in memory so tests can inspect the
// pending set without running a cron loop.
type fakeScheduler struct {
	mu      sync.Mutex
	serial  int
	pending map[RequestHandle]fakeRequest
}

type fakeRequest struct {
	tag     string
	payload Payload
	fireAt  time.Time     // recurring requests
	delay   time.Duration // one-shot requests
	once    bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: map[RequestHandle]fakeRequest{}}
}

func (f *fakeScheduler) Submit(fireAt time.Time, tag string, p Payload) (RequestHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serial++
	h := RequestHandle(fmt.Sprintf("req-%d", f.serial))
	f.pending[h] = fakeRequest{tag: tag, payload: p, fireAt: fireAt}
	return h, nil
}

func (f *fakeScheduler) SubmitOnce(delay time.Duration, tag string, p Payload) (RequestHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serial++
	h := RequestHandle(fmt.Sprintf("once-%d", f.serial))
	f.pending[h] = fakeRequest{tag: tag, payload: p, delay: delay, once: true}
	return h, nil
}

func (f *fakeScheduler) CancelByTag(tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for h, r := range f.pending {
		if r.tag == tag {
			delete(f.pending, h)
		}
	}
}

func (f *fakeScheduler) byTag(tag string) []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeRequest
	for _, r := range f.pending {
		if r.tag == tag {
			out = append(out, r)
		}
	}
	return out
}

// fakeStore answers the dispatcher's fire-time re-check.
type fakeStore struct {
	mu   sync.Mutex
	meds map[uint64]model.Medication
	err  error
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (model.Medication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Medication{}, f.err
	}
	m, ok := f.meds[id]
	if !ok {
		return model.Medication{}, errors.New("not found")
	}
	return m, nil
}

func (f *fakeStore) put(m model.Medication) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.meds == nil {
		f.meds = map[uint64]model.Medication{}
	}
	f.meds[m.ID] = m
}

// recordingPresenter captures presented reminders.
type recordingPresenter struct {
	mu        sync.Mutex
	presented []notify.Reminder
}

func (p *recordingPresenter) Present(_ context.Context, r notify.Reminder) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presented = append(p.presented, r)
	return nil
}

func (p *recordingPresenter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.presented)
}

func newTestDispatcher(s Scheduler, store MedicationGetter, p notify.Presenter, now time.Time) *Dispatcher {
	d := NewDispatcher(s, store, p, nil)
	d.now = func() time.Time { return now }
	return d
}

func TestScheduleSubmitsRolledForwardInstants(t *testing.T) {
	// 10:00: the 09:00 dose has passed, the 21:00 dose has not.
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	s := newFakeScheduler()
	m := medication(model.FrequencyTwiceDaily)
	m.SpecificTimes = []model.TimeOfDay{{Hour: 9}, {Hour: 21}}
	d := newTestDispatcher(s, &fakeStore{}, nil, now)

	n := d.Schedule(m)
	require.Equal(t, 2, n)

	reqs := s.byTag(ReminderTag(m.ID))
	require.Len(t, reqs, 2)
	fireAts := []time.Time{reqs[0].fireAt, reqs[1].fireAt}
	assert.Contains(t, fireAts, time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC))
	assert.Contains(t, fireAts, time.Date(2025, time.March, 14, 21, 0, 0, 0, time.UTC))
	for _, r := range reqs {
		assert.True(t, r.fireAt.After(now))
		assert.Equal(t, m.ID, r.payload.MedicationID)
		assert.Equal(t, "Aspirin", r.payload.Name)
	}
}

func TestScheduleIsCancelAndReplace(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	s := newFakeScheduler()
	m := medication(model.FrequencyThreeTimesDaily)
	d := newTestDispatcher(s, &fakeStore{}, nil, now)

	d.Schedule(m)
	d.Schedule(m)
	d.Reschedule(m)

	// Repeated scheduling never accumulates requests.
	assert.Len(t, s.byTag(ReminderTag(m.ID)), 3)
}

func TestScheduleInactiveSubmitsNothing(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	s := newFakeScheduler()
	m := medication(model.FrequencyOnceDaily)
	m.IsActive = false
	d := newTestDispatcher(s, &fakeStore{}, nil, now)

	assert.Equal(t, 0, d.Schedule(m))
	assert.Empty(t, s.byTag(ReminderTag(m.ID)))
}

func TestSnoozeSurvivesRescheduleButNotCancel(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	s := newFakeScheduler()
	m := medication(model.FrequencyOnceDaily)
	d := newTestDispatcher(s, &fakeStore{}, nil, now)

	d.Schedule(m)
	d.Snooze(m.ID, m.UserID, m.Name, m.Dosage, 10)

	require.Len(t, s.byTag(SnoozeTag(m.ID)), 1)
	assert.Equal(t, 10*time.Minute, s.byTag(SnoozeTag(m.ID))[0].delay)

	// Rescheduling replaces the recurring set but leaves the snooze queued.
	d.Reschedule(m)
	assert.Len(t, s.byTag(ReminderTag(m.ID)), 1)
	assert.Len(t, s.byTag(SnoozeTag(m.ID)), 1)

	// Full cancellation removes both.
	d.Cancel(m.ID)
	assert.Empty(t, s.byTag(ReminderTag(m.ID)))
	assert.Empty(t, s.byTag(SnoozeTag(m.ID)))
}

func TestSnoozeDefaultsMinutes(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	s := newFakeScheduler()
	d := newTestDispatcher(s, &fakeStore{}, nil, now)

	d.Snooze(7, 1, "Aspirin", "100mg", 0)
	reqs := s.byTag(SnoozeTag(7))
	require.Len(t, reqs, 1)
	assert.Equal(t, time.Duration(DefaultSnoozeMinutes)*time.Minute, reqs[0].delay)
}

func TestHandleFirePresentsActiveMedication(t *testing.T) {
	now := time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	m := medication(model.FrequencyOnceDaily)
	store.put(*m)
	p := &recordingPresenter{}
	d := newTestDispatcher(newFakeScheduler(), store, p, now)

	d.HandleFire(Payload{MedicationID: m.ID, UserID: m.UserID, Name: m.Name, Dosage: m.Dosage}, now)

	require.Equal(t, 1, p.count())
	assert.Equal(t, "Aspirin", p.presented[0].Name)
	assert.Equal(t, now, p.presented[0].ScheduledAt)
}

func TestHandleFireStaleMedicationIsSilent(t *testing.T) {
	now := time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)

	t.Run("deactivated", func(t *testing.T) {
		store := &fakeStore{}
		m := medication(model.FrequencyOnceDaily)
		m.IsActive = false
		store.put(*m)
		p := &recordingPresenter{}
		d := newTestDispatcher(newFakeScheduler(), store, p, now)

		d.HandleFire(Payload{MedicationID: m.ID}, now)
		assert.Equal(t, 0, p.count())
	})

	t.Run("deleted", func(t *testing.T) {
		p := &recordingPresenter{}
		d := newTestDispatcher(newFakeScheduler(), &fakeStore{}, p, now)

		d.HandleFire(Payload{MedicationID: 404}, now)
		assert.Equal(t, 0, p.count())
	})
}

func TestTagsAreDisjoint(t *testing.T) {
	assert.NotEqual(t, ReminderTag(1), SnoozeTag(1))
	assert.Equal(t, "medication_reminder_42", ReminderTag(42))
	assert.Equal(t, "medication_snooze_42", SnoozeTag(42))
}
