package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/dosebuddy/dosebuddy-server/internal/model"
)

// MedicationRepo manages persistence for medications. The specific_times
// column stores the explicit reminder times as a JSON array of "HH:MM"
// strings; rows are soft-deleted (is_active flag) so dose history keeps a
// valid medication reference.
type MedicationRepo struct {
	db *sql.DB
}

// NewMedicationRepo constructs a MedicationRepo with the given DB handle.
func NewMedicationRepo(db *sql.DB) *MedicationRepo {
	return &MedicationRepo{db: db}
}

const medicationColumns = `id, user_id, name, dosage, frequency, times_per_day,
	specific_times, start_date, end_date, notes, is_active, created_at, updated_at`

// Create inserts a medication record. On success the medication's ID is
// populated.
func (r *MedicationRepo) Create(ctx context.Context, m *model.Medication) error {
	specific, err := model.EncodeTimesOfDay(m.SpecificTimes)
	if err != nil {
		return err
	}

	const q = `INSERT INTO medications
	           (user_id, name, dosage, frequency, times_per_day, specific_times, start_date, end_date, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		m.UserID, m.Name, m.Dosage, string(m.Frequency), m.TimesPerDay,
		specific, m.StartDate, m.EndDate, m.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID retrieves one medication, active or not.
func (r *MedicationRepo) GetByID(ctx context.Context, id uint64) (model.Medication, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+medicationColumns+" FROM medications WHERE id = ? LIMIT 1", id)

	m, err := scanMedication(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Medication{}, ErrMedicationNotFound
	}
	return m, err
}

// ListForUser retrieves a user's medications, newest first. Inactive rows
// are included only when includeInactive is set.
func (r *MedicationRepo) ListForUser(ctx context.Context, userID uint64, includeInactive bool) ([]model.Medication, error) {
	q := "SELECT " + medicationColumns + " FROM medications WHERE user_id = ?"
	if !includeInactive {
		q += " AND is_active = 1"
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMedications(rows)
}

// ListActive retrieves every active medication across all users. Used at
// startup to rebuild the pending reminder set from configuration.
func (r *MedicationRepo) ListActive(ctx context.Context) ([]model.Medication, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+medicationColumns+" FROM medications WHERE is_active = 1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMedications(rows)
}

// Update rewrites the mutable fields of a medication.
func (r *MedicationRepo) Update(ctx context.Context, m *model.Medication) error {
	specific, err := model.EncodeTimesOfDay(m.SpecificTimes)
	if err != nil {
		return err
	}

	const q = `UPDATE medications
	           SET name=?, dosage=?, frequency=?, times_per_day=?, specific_times=?,
	               start_date=?, end_date=?, notes=?, updated_at=NOW()
	           WHERE id=?`
	res, err := r.db.ExecContext(ctx, q,
		m.Name, m.Dosage, string(m.Frequency), m.TimesPerDay, specific,
		m.StartDate, m.EndDate, m.Notes, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Could also be a no-change update; re-check existence to report
		// the right condition.
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete flips the active flag off, preserving the row for history
// references.
func (r *MedicationRepo) SoftDelete(ctx context.Context, id uint64) error {
	return r.setActive(ctx, id, false)
}

// Reactivate flips the active flag back on.
func (r *MedicationRepo) Reactivate(ctx context.Context, id uint64) error {
	return r.setActive(ctx, id, true)
}

func (r *MedicationRepo) setActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE medications SET is_active=?, updated_at=NOW() WHERE id=?", active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// scanMedication maps one row onto the model. A malformed specific_times
// value does not fail the scan: the medication falls back to its frequency's
// default reminder times, so one corrupt row cannot break the user's list.
func scanMedication(scan func(dest ...any) error) (model.Medication, error) {
	var (
		m        model.Medication
		freq     string
		specific sql.NullString
		endDate  sql.NullTime
		notes    sql.NullString
	)
	err := scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &freq, &m.TimesPerDay,
		&specific, &m.StartDate, &endDate, &notes, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.Medication{}, err
	}

	m.Frequency = model.ParseFrequency(freq)
	if endDate.Valid {
		t := endDate.Time
		m.EndDate = &t
	}
	if notes.Valid {
		m.Notes = notes.String
	}
	if specific.Valid {
		times, ok := model.DecodeTimesOfDay(specific.String)
		if !ok {
			log.Printf("medication-repo: malformed specific_times for medication %d, using frequency defaults", m.ID)
		}
		m.SpecificTimes = times
	}
	return m, nil
}

func collectMedications(rows *sql.Rows) ([]model.Medication, error) {
	out := make([]model.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
