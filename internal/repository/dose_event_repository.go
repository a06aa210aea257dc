package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
)

// DoseEventRepo manages the append-only medication_history table. Rows are
// immutable once written; the table carries name/dosage snapshots so history
// survives medication edits and soft-deletes.
type DoseEventRepo struct {
	db *sql.DB
}

// NewDoseEventRepo constructs a DoseEventRepo with the given DB handle.
func NewDoseEventRepo(db *sql.DB) *DoseEventRepo {
	return &DoseEventRepo{db: db}
}

const doseEventColumns = `id, user_id, medication_id, medication_name, medication_dosage,
	scheduled_time, taken_at, taken_method, is_on_time, notes, created_at`

// InsertDoseEvent appends one history record and returns its ID.
func (r *DoseEventRepo) InsertDoseEvent(ctx context.Context, e model.DoseEvent) (uint64, error) {
	const q = `INSERT INTO medication_history
	           (user_id, medication_id, medication_name, medication_dosage,
	            scheduled_time, taken_at, taken_method, is_on_time, notes, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.UserID, e.MedicationID, e.MedicationName, e.MedicationDosage,
		e.ScheduledTime, e.TakenAt, string(e.TakenMethod), e.IsOnTime, e.Notes, e.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID retrieves one history record.
func (r *DoseEventRepo) GetByID(ctx context.Context, id uint64) (model.DoseEvent, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+doseEventColumns+" FROM medication_history WHERE id = ? LIMIT 1", id)

	e, err := scanDoseEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DoseEvent{}, ErrDoseEventNotFound
	}
	return e, err
}

// ListForUser retrieves a user's history inside [from, to], newest first.
func (r *DoseEventRepo) ListForUser(ctx context.Context, userID uint64, from, to time.Time) ([]model.DoseEvent, error) {
	const q = "SELECT " + doseEventColumns + ` FROM medication_history
	           WHERE user_id = ? AND taken_at >= ? AND taken_at <= ?
	           ORDER BY taken_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDoseEvents(rows)
}

// ListForMedication retrieves one medication's history inside [from, to],
// newest first.
func (r *DoseEventRepo) ListForMedication(ctx context.Context, medicationID uint64, from, to time.Time) ([]model.DoseEvent, error) {
	const q = "SELECT " + doseEventColumns + ` FROM medication_history
	           WHERE medication_id = ? AND taken_at >= ? AND taken_at <= ?
	           ORDER BY taken_at DESC`
	rows, err := r.db.QueryContext(ctx, q, medicationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDoseEvents(rows)
}

// LastTaken returns the most recent dose event for a medication, or
// ErrDoseEventNotFound when none exists.
func (r *DoseEventRepo) LastTaken(ctx context.Context, medicationID uint64) (model.DoseEvent, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+doseEventColumns+" FROM medication_history WHERE medication_id = ? ORDER BY taken_at DESC LIMIT 1",
		medicationID)

	e, err := scanDoseEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DoseEvent{}, ErrDoseEventNotFound
	}
	return e, err
}

// WasTakenToday reports whether a medication has any dose inside today's
// [dayStart, dayEnd] window.
func (r *DoseEventRepo) WasTakenToday(ctx context.Context, medicationID uint64, dayStart, dayEnd time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM medication_history WHERE medication_id = ? AND taken_at >= ? AND taken_at <= ?",
		medicationID, dayStart, dayEnd).Scan(&n)
	return n > 0, err
}

// CountDoseEvents counts a medication's doses in a window.
func (r *DoseEventRepo) CountDoseEvents(ctx context.Context, medicationID uint64, from, to time.Time) (int, error) {
	return r.count(ctx,
		"SELECT COUNT(*) FROM medication_history WHERE medication_id = ? AND taken_at >= ? AND taken_at <= ?",
		medicationID, from, to)
}

// CountOnTimeDoseEvents counts a medication's on-time doses in a window.
func (r *DoseEventRepo) CountOnTimeDoseEvents(ctx context.Context, medicationID uint64, from, to time.Time) (int, error) {
	return r.count(ctx,
		"SELECT COUNT(*) FROM medication_history WHERE medication_id = ? AND taken_at >= ? AND taken_at <= ? AND is_on_time = 1",
		medicationID, from, to)
}

// CountUserDoseEvents counts all of a user's doses in a window.
func (r *DoseEventRepo) CountUserDoseEvents(ctx context.Context, userID uint64, from, to time.Time) (int, error) {
	return r.count(ctx,
		"SELECT COUNT(*) FROM medication_history WHERE user_id = ? AND taken_at >= ? AND taken_at <= ?",
		userID, from, to)
}

// CountUserOnTimeDoseEvents counts a user's on-time doses in a window.
func (r *DoseEventRepo) CountUserOnTimeDoseEvents(ctx context.Context, userID uint64, from, to time.Time) (int, error) {
	return r.count(ctx,
		"SELECT COUNT(*) FROM medication_history WHERE user_id = ? AND taken_at >= ? AND taken_at <= ? AND is_on_time = 1",
		userID, from, to)
}

func (r *DoseEventRepo) count(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

func scanDoseEvent(scan func(dest ...any) error) (model.DoseEvent, error) {
	var (
		e         model.DoseEvent
		scheduled sql.NullTime
		method    string
		notes     sql.NullString
	)
	err := scan(&e.ID, &e.UserID, &e.MedicationID, &e.MedicationName, &e.MedicationDosage,
		&scheduled, &e.TakenAt, &method, &e.IsOnTime, &notes, &e.CreatedAt)
	if err != nil {
		return model.DoseEvent{}, err
	}

	e.TakenMethod = model.ParseTakenMethod(method)
	if scheduled.Valid {
		t := scheduled.Time
		e.ScheduledTime = &t
	}
	if notes.Valid {
		e.Notes = notes.String
	}
	return e, nil
}

func collectDoseEvents(rows *sql.Rows) ([]model.DoseEvent, error) {
	out := make([]model.DoseEvent, 0)
	for rows.Next() {
		e, err := scanDoseEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
