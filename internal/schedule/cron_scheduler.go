package schedule

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/dosebuddy/dosebuddy-server/internal/timeutil"
)

// CronScheduler is the production Scheduler, backed by robfig/cron. A
// daily-recurring fire request maps onto a "M H * * *" cron entry, which
// gives the roll-forward-to-tomorrow behaviour for free; one-shot snoozes
// use a fire-once schedule that removes itself after running.
type CronScheduler struct {
	cron *cron.Cron
	fire FireFunc

	mu      sync.Mutex
	entries map[string][]entryRef // tag -> pending entries
}

type entryRef struct {
	id     cron.EntryID
	handle RequestHandle
}

// NewCronScheduler builds a scheduler delivering fires to fn. Call Start
// before submitting and Stop on shutdown.
func NewCronScheduler(fn FireFunc) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(),
		fire:    fn,
		entries: map[string][]entryRef{},
	}
}

// Start launches the cron runner in its own goroutine.
func (s *CronScheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for any in-flight fire to finish.
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Submit implements Scheduler. The entry recurs daily at fireAt's
// time-of-day; the scheduledAt passed to the fire function is recomputed per
// occurrence so every delivery reports its own day's instant.
func (s *CronScheduler) Submit(fireAt time.Time, tag string, p Payload) (RequestHandle, error) {
	hour, minute, _ := fireAt.Clock()
	spec := fmt.Sprintf("%d %d * * *", minute, hour)

	id, err := s.cron.AddFunc(spec, func() {
		s.fire(p, timeutil.AtTimeOfDay(time.Now(), hour, minute))
	})
	if err != nil {
		return "", fmt.Errorf("add cron entry %q: %w", spec, err)
	}

	handle := RequestHandle(uuid.NewString())
	s.track(tag, entryRef{id: id, handle: handle})
	return handle, nil
}

// SubmitOnce implements Scheduler. The entry fires a single time after
// delay and is then removed.
func (s *CronScheduler) SubmitOnce(delay time.Duration, tag string, p Payload) (RequestHandle, error) {
	if delay <= 0 {
		return "", fmt.Errorf("one-shot delay must be positive, got %s", delay)
	}

	fireAt := time.Now().Add(delay)
	handle := RequestHandle(uuid.NewString())

	var id cron.EntryID
	id = s.cron.Schedule(onceSchedule{at: fireAt}, cron.FuncJob(func() {
		s.fire(p, fireAt)
		s.cron.Remove(id)
		s.untrack(tag, handle)
	}))

	s.track(tag, entryRef{id: id, handle: handle})
	return handle, nil
}

// CancelByTag implements Scheduler.
func (s *CronScheduler) CancelByTag(tag string) {
	s.mu.Lock()
	refs := s.entries[tag]
	delete(s.entries, tag)
	s.mu.Unlock()

	for _, ref := range refs {
		s.cron.Remove(ref.id)
	}
	if len(refs) > 0 {
		log.Printf("cron-scheduler: cancelled %d request(s) tagged %s", len(refs), tag)
	}
}

// PendingByTag reports how many requests are queued under a tag; used by the
// health endpoint and in tests.
func (s *CronScheduler) PendingByTag(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries[tag])
}

func (s *CronScheduler) track(tag string, ref entryRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tag] = append(s.entries[tag], ref)
}

func (s *CronScheduler) untrack(tag string, handle RequestHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := s.entries[tag]
	for i, ref := range refs {
		if ref.handle == handle {
			s.entries[tag] = append(refs[:i], refs[i+1:]...)
			break
		}
	}
	if len(s.entries[tag]) == 0 {
		delete(s.entries, tag)
	}
}

// onceSchedule runs exactly once at a fixed instant. After the instant has
// passed Next reports the zero time, which cron treats as "never again".
type onceSchedule struct {
	at time.Time
}

// Next implements cron.Schedule.
func (o onceSchedule) Next(t time.Time) time.Time {
	if t.Before(o.at) {
		return o.at
	}
	return time.Time{}
}
