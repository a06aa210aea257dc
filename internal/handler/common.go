package handler // handler defines http handlers

import (
	"net/http" // status codes
	"strconv"  // string-to-int conversion
	"time"     // date parsing for query filters

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/dosebuddy/dosebuddy-server/internal/middleware" // authenticated user lookup
	"github.com/dosebuddy/dosebuddy-server/internal/model"      // domain models
)

// requireUser reads the authenticated user ID or writes a 401. The bool
// result tells the caller whether to continue.
func requireUser(c echo.Context) (uint64, bool) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return uid, ok
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, returning def when
// absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// historyWindow reads optional from/to query dates (YYYY-MM-DD). The default
// window is the trailing 30 days ending now.
func historyWindow(c echo.Context) (time.Time, time.Time) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if v := c.QueryParam("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			// Inclusive end date: extend to the last instant of that day.
			to = t.AddDate(0, 0, 1).Add(-time.Millisecond)
		}
	}
	return from, to
}

// ----- response DTOs shared by medication and history endpoints -----

type medicationResp struct {
	ID            uint64     `json:"id"`
	Name          string     `json:"name"`
	Dosage        string     `json:"dosage"`
	Frequency     string     `json:"frequency"`
	TimesPerDay   int        `json:"times_per_day"`
	SpecificTimes []string   `json:"specific_times,omitempty"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toMedicationResp(m model.Medication) medicationResp {
	var times []string
	for _, t := range m.SpecificTimes {
		times = append(times, t.String())
	}
	return medicationResp{
		ID:            m.ID,
		Name:          m.Name,
		Dosage:        m.Dosage,
		Frequency:     string(m.Frequency),
		TimesPerDay:   m.EffectiveTimesPerDay(),
		SpecificTimes: times,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Notes:         m.Notes,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type doseEventResp struct {
	ID            uint64     `json:"id"`
	MedicationID  uint64     `json:"medication_id"`
	Name          string     `json:"medication_name"`
	Dosage        string     `json:"medication_dosage"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	TakenAt       time.Time  `json:"taken_at"`
	TakenMethod   string     `json:"taken_method"`
	IsOnTime      bool       `json:"is_on_time"`
	Notes         string     `json:"notes,omitempty"`
}

func toDoseEventResp(e model.DoseEvent) doseEventResp {
	return doseEventResp{
		ID:            e.ID,
		MedicationID:  e.MedicationID,
		Name:          e.MedicationName,
		Dosage:        e.MedicationDosage,
		ScheduledTime: e.ScheduledTime,
		TakenAt:       e.TakenAt,
		TakenMethod:   string(e.TakenMethod),
		IsOnTime:      e.IsOnTime,
		Notes:         e.Notes,
	}
}

func toDoseEventList(events []model.DoseEvent) []doseEventResp {
	out := make([]doseEventResp, 0, len(events))
	for _, e := range events {
		out = append(out, toDoseEventResp(e))
	}
	return out
}
