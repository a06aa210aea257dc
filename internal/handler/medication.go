package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dosebuddy/dosebuddy-server/internal/history"
	"github.com/dosebuddy/dosebuddy-server/internal/model"
	"github.com/dosebuddy/dosebuddy-server/internal/repository"
	"github.com/dosebuddy/dosebuddy-server/internal/schedule"
	"github.com/dosebuddy/dosebuddy-server/internal/timeutil"
)

// MedicationHandler bundles the medication CRUD endpoints with the reminder
// dispatcher so every configuration change is reflected in the pending
// reminder set before the response goes out.
type MedicationHandler struct {
	Meds       *repository.MedicationRepo
	Doses      *repository.DoseEventRepo
	Dispatcher *schedule.Dispatcher
	Recorder   *history.Recorder
}

func NewMedicationHandler(meds *repository.MedicationRepo, doses *repository.DoseEventRepo,
	d *schedule.Dispatcher, rec *history.Recorder) *MedicationHandler {
	if meds == nil || doses == nil || d == nil || rec == nil {
		panic("nil dependency passed to NewMedicationHandler")
	}
	return &MedicationHandler{Meds: meds, Doses: doses, Dispatcher: d, Recorder: rec}
}

// ----- DTOs -----

type medicationReq struct {
	Name          string   `json:"name"`
	Dosage        string   `json:"dosage"`
	Frequency     string   `json:"frequency"`
	TimesPerDay   int      `json:"times_per_day"`
	SpecificTimes []string `json:"specific_times"`
	StartDate     string   `json:"start_date"` // YYYY-MM-DD
	EndDate       string   `json:"end_date"`   // YYYY-MM-DD, optional
	Notes         string   `json:"notes"`
}

type takenReq struct {
	TakenAt       string `json:"taken_at"`       // RFC 3339, defaults to now
	ScheduledTime string `json:"scheduled_time"` // RFC 3339, optional
	Method        string `json:"method"`         // REMINDER | MANUAL | NOTIFICATION
	Notes         string `json:"notes"`
}

// apply maps the request body onto a medication, reporting the first invalid
// field. Times must be "HH:MM"; dates are calendar days.
func (req *medicationReq) apply(m *model.Medication) error {
	m.Name = strings.TrimSpace(req.Name)
	m.Dosage = strings.TrimSpace(req.Dosage)
	m.Frequency = model.ParseFrequency(req.Frequency)
	m.TimesPerDay = req.TimesPerDay
	m.Notes = strings.TrimSpace(req.Notes)

	m.SpecificTimes = nil
	for _, s := range req.SpecificTimes {
		t, err := model.ParseTimeOfDay(s)
		if err != nil {
			return err
		}
		m.SpecificTimes = append(m.SpecificTimes, t)
	}

	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return errors.New("start_date must be YYYY-MM-DD")
		}
		m.StartDate = start
	}
	m.EndDate = nil
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return errors.New("end_date must be YYYY-MM-DD")
		}
		m.EndDate = &end
	}
	return nil
}

// Create adds a medication and schedules its reminders.
func (h *MedicationHandler) Create(c echo.Context) error {
	uid, ok := requireUser(c)
	if !ok {
		return nil
	}
	var req medicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	m := model.Medication{UserID: uid, IsActive: true}
	if err := req.apply(&m); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := m.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Meds.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.Dispatcher.Schedule(&m)

	return c.JSON(http.StatusCreated, toMedicationResp(m))
}

// List returns the user's medications; inactive rows only on request.
func (h *MedicationHandler) List(c echo.Context) error {
	uid, ok := requireUser(c)
	if !ok {
		return nil
	}
	includeInactive := c.QueryParam("include_inactive") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	meds, err := h.Meds.ListForUser(ctx, uid, includeInactive)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	out := make([]medicationResp, 0, len(meds))
	for _, m := range meds {
		out = append(out, toMedicationResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one medication owned by the caller.
func (h *MedicationHandler) Get(c echo.Context) error {
	m, ok := h.ownedMedication(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, toMedicationResp(m))
}

// Update rewrites the medication's configuration and replaces its pending
// reminders with a freshly derived set.
func (h *MedicationHandler) Update(c echo.Context) error {
	m, ok := h.ownedMedication(c)
	if !ok {
		return nil
	}
	var req medicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.apply(&m); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := m.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Meds.Update(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Dispatcher.Reschedule(&m)

	return c.JSON(http.StatusOK, toMedicationResp(m))
}

// Delete soft-deletes the medication and cancels all of its pending
// reminders, snoozes included. History rows stay.
func (h *MedicationHandler) Delete(c echo.Context) error {
	m, ok := h.ownedMedication(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Meds.SoftDelete(ctx, m.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.Dispatcher.Cancel(m.ID)

	return c.NoContent(http.StatusNoContent)
}

// Reactivate restores a soft-deleted medication and schedules its reminders
// again from the current configuration.
func (h *MedicationHandler) Reactivate(c echo.Context) error {
	m, ok := h.ownedMedication(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Meds.Reactivate(ctx, m.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reactivate failed"})
	}
	m.IsActive = true
	h.Dispatcher.Schedule(&m)

	return c.JSON(http.StatusOK, toMedicationResp(m))
}

// MarkTaken records a dose for the medication. Recording is asynchronous;
// the response carries the record as built, before the store assigns an ID.
func (h *MedicationHandler) MarkTaken(c echo.Context) error {
	m, ok := h.ownedMedication(c)
	if !ok {
		return nil
	}
	var req takenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	takenAt := time.Now()
	if req.TakenAt != "" {
		t, err := time.Parse(time.RFC3339, req.TakenAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "taken_at must be RFC 3339"})
		}
		takenAt = t
	}
	var scheduled *time.Time
	if req.ScheduledTime != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_time must be RFC 3339"})
		}
		scheduled = &t
	}

	e := h.Recorder.Record(m.UserID, &m, takenAt, model.ParseTakenMethod(req.Method), scheduled, req.Notes)
	return c.JSON(http.StatusCreated, toDoseEventResp(e))
}

// LastTaken returns the most recent dose event for the medication.
func (h *MedicationHandler) LastTaken(c echo.Context) error {
	m, ok := h.ownedMedication(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Doses.LastTaken(ctx, m.ID)
	if err != nil {
		if errors.Is(err, repository.ErrDoseEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no doses recorded"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toDoseEventResp(e))
}

// TakenToday reports whether any dose was recorded today for the medication.
func (h *MedicationHandler) TakenToday(c echo.Context) error {
	m, ok := h.ownedMedication(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	taken, err := h.Doses.WasTakenToday(ctx, m.ID, timeutil.StartOfDay(now), timeutil.EndOfDay(now))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"taken_today": taken})
}

// ownedMedication loads the :id medication and enforces ownership. On any
// failure the response has already been written and the bool is false.
func (h *MedicationHandler) ownedMedication(c echo.Context) (model.Medication, bool) {
	uid, ok := requireUser(c)
	if !ok {
		return model.Medication{}, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		return model.Medication{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Meds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMedicationNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "medication not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.Medication{}, false
	}
	if m.UserID != uid {
		// Hide other users' medication IDs behind a 404.
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "medication not found"})
		return model.Medication{}, false
	}
	return m, true
}
