package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
)

// fakeEventStore collects inserted events.
type fakeEventStore struct {
	mu     sync.Mutex
	events []model.DoseEvent
}

func (f *fakeEventStore) InsertDoseEvent(_ context.Context, e model.DoseEvent) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return uint64(len(f.events)), nil
}

func (f *fakeEventStore) all() []model.DoseEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.DoseEvent, len(f.events))
	copy(out, f.events)
	return out
}

func testMedication() *model.Medication {
	return &model.Medication{
		ID:        3,
		UserID:    1,
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: model.FrequencyTwiceDaily,
		StartDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func TestRecordSnapshotsMedication(t *testing.T) {
	store := &fakeEventStore{}
	r := NewRecorder(store, nil)

	m := testMedication()
	takenAt := time.Date(2025, time.March, 14, 8, 25, 0, 0, time.UTC)
	e := r.Record(m.UserID, m, takenAt, model.TakenMethodManual, nil, "  with food ")
	r.Close()

	assert.Equal(t, "Metformin", e.MedicationName)
	assert.Equal(t, "500mg", e.MedicationDosage)
	assert.Equal(t, "with food", e.Notes)
	assert.True(t, e.IsOnTime) // no schedule means on time

	events := store.all()
	require.Len(t, events, 1)
	assert.Equal(t, m.ID, events[0].MedicationID)
	assert.Equal(t, takenAt, events[0].TakenAt)
}

func TestRecordOnTimeClassification(t *testing.T) {
	store := &fakeEventStore{}
	r := NewRecorder(store, nil)
	defer r.Close()
	m := testMedication()
	scheduled := time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)

	t.Run("within the window", func(t *testing.T) {
		e := r.Record(m.UserID, m, scheduled.Add(25*time.Minute), model.TakenMethodReminder, &scheduled, "")
		assert.True(t, e.IsOnTime)
	})

	t.Run("at the boundary", func(t *testing.T) {
		e := r.Record(m.UserID, m, scheduled.Add(model.OnTimeWindow), model.TakenMethodReminder, &scheduled, "")
		assert.True(t, e.IsOnTime)
	})

	t.Run("past the boundary", func(t *testing.T) {
		e := r.Record(m.UserID, m, scheduled.Add(model.OnTimeWindow+time.Millisecond), model.TakenMethodReminder, &scheduled, "")
		assert.False(t, e.IsOnTime)
	})

	t.Run("early counts the same as late", func(t *testing.T) {
		e := r.Record(m.UserID, m, scheduled.Add(-45*time.Minute), model.TakenMethodReminder, &scheduled, "")
		assert.False(t, e.IsOnTime)
	})
}

func TestCloseDrainsQueuedEvents(t *testing.T) {
	store := &fakeEventStore{}
	r := NewRecorder(store, nil)
	m := testMedication()

	for i := 0; i < 20; i++ {
		r.Record(m.UserID, m, time.Now(), model.TakenMethodManual, nil, "")
	}
	r.Close()

	assert.Len(t, store.all(), 20)
}

// recordingPublisher captures fan-out calls.
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.DoseEvent
}

func (p *recordingPublisher) DoseRecorded(_ context.Context, e model.DoseEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func TestPublisherSeesPersistedID(t *testing.T) {
	store := &fakeEventStore{}
	pub := &recordingPublisher{}
	r := NewRecorder(store, pub)
	m := testMedication()

	r.Record(m.UserID, m, time.Now(), model.TakenMethodManual, nil, "")
	r.Close()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 1)
	assert.Equal(t, uint64(1), pub.events[0].ID)
}
