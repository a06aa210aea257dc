package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnceScheduleNext(t *testing.T) {
	at := time.Date(2025, time.March, 14, 8, 15, 0, 0, time.UTC)
	o := onceSchedule{at: at}

	assert.Equal(t, at, o.Next(at.Add(-time.Minute)))
	// Once the instant passes, the schedule never fires again.
	assert.True(t, o.Next(at).IsZero())
	assert.True(t, o.Next(at.Add(time.Hour)).IsZero())
}

func TestCronSchedulerTracksAndCancelsByTag(t *testing.T) {
	s := NewCronScheduler(func(Payload, time.Time) {})

	_, err := s.Submit(time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC), "tag-a", Payload{MedicationID: 1})
	require.NoError(t, err)
	_, err = s.Submit(time.Date(2025, time.March, 14, 20, 0, 0, 0, time.UTC), "tag-a", Payload{MedicationID: 1})
	require.NoError(t, err)
	_, err = s.SubmitOnce(10*time.Minute, "tag-b", Payload{MedicationID: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, s.PendingByTag("tag-a"))
	assert.Equal(t, 1, s.PendingByTag("tag-b"))

	s.CancelByTag("tag-a")
	assert.Equal(t, 0, s.PendingByTag("tag-a"))
	assert.Equal(t, 1, s.PendingByTag("tag-b"))
}

func TestCronSchedulerRejectsNonPositiveDelay(t *testing.T) {
	s := NewCronScheduler(func(Payload, time.Time) {})

	_, err := s.SubmitOnce(0, "tag", Payload{})
	assert.Error(t, err)
	_, err = s.SubmitOnce(-time.Minute, "tag", Payload{})
	assert.Error(t, err)
	assert.Equal(t, 0, s.PendingByTag("tag"))
}

func TestCronSchedulerDeliversOneShot(t *testing.T) {
	fired := make(chan Payload, 1)
	s := NewCronScheduler(func(p Payload, _ time.Time) { fired <- p })
	s.Start()
	defer s.Stop()

	_, err := s.SubmitOnce(50*time.Millisecond, "tag", Payload{MedicationID: 9, Name: "Aspirin"})
	require.NoError(t, err)

	select {
	case p := <-fired:
		assert.Equal(t, uint64(9), p.MedicationID)
	case <-time.After(3 * time.Second):
		t.Fatal("one-shot request never fired")
	}

	// The entry removes itself after firing.
	assert.Eventually(t, func() bool { return s.PendingByTag("tag") == 0 },
		time.Second, 10*time.Millisecond)
}
