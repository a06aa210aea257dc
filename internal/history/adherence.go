package history

import (
	"context"
	"time"

	"github.com/dosebuddy/dosebuddy-server/internal/timeutil"
)

// AdherenceLevel is the qualitative classification of an adherence rate.
type AdherenceLevel string

const (
	AdherenceExcellent        AdherenceLevel = "EXCELLENT"
	AdherenceGood             AdherenceLevel = "GOOD"
	AdherenceFair             AdherenceLevel = "FAIR"
	AdherenceNeedsImprovement AdherenceLevel = "NEEDS_IMPROVEMENT"
)

// LevelFor classifies a percentage rate. Thresholds are inclusive at the
// lower bound: >=90 excellent, >=75 good, >=50 fair.
func LevelFor(rate int) AdherenceLevel {
	switch {
	case rate >= 90:
		return AdherenceExcellent
	case rate >= 75:
		return AdherenceGood
	case rate >= 50:
		return AdherenceFair
	default:
		return AdherenceNeedsImprovement
	}
}

// Stats summarises recorded doses inside a time window.
type Stats struct {
	TotalDoses    int            `json:"total_doses"`
	OnTimeDoses   int            `json:"on_time_doses"`
	AdherenceRate int            `json:"adherence_rate"`
	Level         AdherenceLevel `json:"level"`
}

// ComputeStats derives the rate and level from raw counts. The rate is
// integer percentage onTime*100/total; zero total yields zero, not an error.
func ComputeStats(total, onTime int) Stats {
	rate := 0
	if total > 0 {
		rate = onTime * 100 / total
	}
	return Stats{
		TotalDoses:    total,
		OnTimeDoses:   onTime,
		AdherenceRate: rate,
		Level:         LevelFor(rate),
	}
}

// StatsStore is the slice of the persistent store the aggregator reads.
type StatsStore interface {
	CountDoseEvents(ctx context.Context, medicationID uint64, from, to time.Time) (int, error)
	CountOnTimeDoseEvents(ctx context.Context, medicationID uint64, from, to time.Time) (int, error)
	CountUserDoseEvents(ctx context.Context, userID uint64, from, to time.Time) (int, error)
	CountUserOnTimeDoseEvents(ctx context.Context, userID uint64, from, to time.Time) (int, error)
}

// Aggregator computes adherence summaries over windows ending now.
type Aggregator struct {
	store StatsStore
	now   func() time.Time
}

// NewAggregator wires an aggregator over the history store.
func NewAggregator(store StatsStore) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// window converts a trailing day count into [from, to]. days <= 0 defaults
// to 30. The window starts at midnight so "7 days" means seven calendar
// days, not 168 floating hours.
func (a *Aggregator) window(days int) (time.Time, time.Time) {
	if days <= 0 {
		days = 30
	}
	to := a.now()
	from := timeutil.StartOfDay(timeutil.AddDays(to, -(days - 1)))
	return from, to
}

// MedicationStats summarises one medication's doses over the trailing
// window.
func (a *Aggregator) MedicationStats(ctx context.Context, medicationID uint64, days int) (Stats, error) {
	from, to := a.window(days)

	total, err := a.store.CountDoseEvents(ctx, medicationID, from, to)
	if err != nil {
		return Stats{}, err
	}
	onTime, err := a.store.CountOnTimeDoseEvents(ctx, medicationID, from, to)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(total, onTime), nil
}

// UserStats summarises all of a user's doses over the trailing window.
func (a *Aggregator) UserStats(ctx context.Context, userID uint64, days int) (Stats, error) {
	from, to := a.window(days)

	total, err := a.store.CountUserDoseEvents(ctx, userID, from, to)
	if err != nil {
		return Stats{}, err
	}
	onTime, err := a.store.CountUserOnTimeDoseEvents(ctx, userID, from, to)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(total, onTime), nil
}
