package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dosebuddy/dosebuddy-server/internal/history"
	"github.com/dosebuddy/dosebuddy-server/internal/model"
	"github.com/dosebuddy/dosebuddy-server/internal/schedule"
)

// ReminderHandler serves the actions a user takes on a fired reminder:
// take now, snooze, dismiss. These are separate from the medication CRUD
// because notification clients call them with minimal payloads.
type ReminderHandler struct {
	Dispatcher *schedule.Dispatcher
	Recorder   *history.Recorder
	Handler    *MedicationHandler // reuses ownership checks
}

func NewReminderHandler(d *schedule.Dispatcher, rec *history.Recorder, mh *MedicationHandler) *ReminderHandler {
	if d == nil || rec == nil || mh == nil {
		panic("nil dependency passed to NewReminderHandler")
	}
	return &ReminderHandler{Dispatcher: d, Recorder: rec, Handler: mh}
}

type reminderActionReq struct {
	ScheduledTime string `json:"scheduled_time"` // RFC 3339, the fired instant
	Minutes       int    `json:"minutes"`        // snooze only; 0 means default
	Notes         string `json:"notes"`
}

// Taken records a dose in response to a reminder. The scheduled instant is
// echoed back by the client so the on-time classification can run against it.
func (h *ReminderHandler) Taken(c echo.Context) error {
	m, ok := h.Handler.ownedMedication(c)
	if !ok {
		return nil
	}
	var req reminderActionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var scheduled *time.Time
	if req.ScheduledTime != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_time must be RFC 3339"})
		}
		scheduled = &t
	}

	e := h.Recorder.Record(m.UserID, &m, time.Now(), model.TakenMethodReminder, scheduled, req.Notes)
	return c.JSON(http.StatusCreated, toDoseEventResp(e))
}

// Snooze re-queues the reminder after the requested delay. Zero or negative
// minutes fall back to the configured default.
func (h *ReminderHandler) Snooze(c echo.Context) error {
	m, ok := h.Handler.ownedMedication(c)
	if !ok {
		return nil
	}
	var req reminderActionReq
	_ = c.Bind(&req) // an empty body means "default snooze"

	h.Dispatcher.Snooze(m.ID, m.UserID, m.Name, m.Dosage, req.Minutes)
	minutes := req.Minutes
	if minutes <= 0 {
		minutes = schedule.DefaultSnoozeMinutes
	}
	return c.JSON(http.StatusOK, echo.Map{"snoozed_minutes": minutes})
}

// Dismiss acknowledges a reminder without recording a dose. The recurring
// request for tomorrow is already queued, so there is nothing to reschedule;
// the endpoint exists so clients have a uniform action surface.
func (h *ReminderHandler) Dismiss(c echo.Context) error {
	_, ok := h.Handler.ownedMedication(c)
	if !ok {
		return nil
	}
	return c.NoContent(http.StatusNoContent)
}
