package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dosebuddy/dosebuddy-server/internal/history"
	"github.com/dosebuddy/dosebuddy-server/internal/repository"
)

// HistoryHandler serves dose history listings and adherence summaries.
type HistoryHandler struct {
	Doses      *repository.DoseEventRepo
	Aggregator *history.Aggregator
	Handler    *MedicationHandler // reuses ownership checks
}

func NewHistoryHandler(doses *repository.DoseEventRepo, agg *history.Aggregator, mh *MedicationHandler) *HistoryHandler {
	if doses == nil || agg == nil || mh == nil {
		panic("nil dependency passed to NewHistoryHandler")
	}
	return &HistoryHandler{Doses: doses, Aggregator: agg, Handler: mh}
}

// ListUser returns the caller's dose history inside an optional from/to
// window (default: trailing 30 days), newest first.
func (h *HistoryHandler) ListUser(c echo.Context) error {
	uid, ok := requireUser(c)
	if !ok {
		return nil
	}
	from, to := historyWindow(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Doses.ListForUser(ctx, uid, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, toDoseEventList(events))
}

// ListMedication returns one medication's dose history inside an optional
// from/to window, newest first.
func (h *HistoryHandler) ListMedication(c echo.Context) error {
	m, ok := h.Handler.ownedMedication(c)
	if !ok {
		return nil
	}
	from, to := historyWindow(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Doses.ListForMedication(ctx, m.ID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, toDoseEventList(events))
}

// MedicationStats summarises one medication's adherence over a trailing
// ?days window (default 30).
func (h *HistoryHandler) MedicationStats(c echo.Context) error {
	m, ok := h.Handler.ownedMedication(c)
	if !ok {
		return nil
	}
	days := queryInt(c, "days", 30)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Aggregator.MedicationStats(ctx, m.ID, days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

// UserStats summarises the caller's overall adherence over a trailing ?days
// window (default 30).
func (h *HistoryHandler) UserStats(c echo.Context) error {
	uid, ok := requireUser(c)
	if !ok {
		return nil
	}
	days := queryInt(c, "days", 30)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Aggregator.UserStats(ctx, uid, days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
	}
	return c.JSON(http.StatusOK, stats)
}
