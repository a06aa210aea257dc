package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dosebuddy/dosebuddy-server/internal/druginfo"
)

// DrugInfoHandler exposes the openFDA label search used by the medication
// entry form.
type DrugInfoHandler struct {
	Client *druginfo.Client
}

func NewDrugInfoHandler(client *druginfo.Client) *DrugInfoHandler {
	if client == nil {
		panic("nil client passed to NewDrugInfoHandler")
	}
	return &DrugInfoHandler{Client: client}
}

// Search looks up drug labels by name (?q=aspirin). No matches is a normal
// answer, not an error; only upstream failures produce a 502.
func (h *DrugInfoHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}

	labels, err := h.Client.Search(c.Request().Context(), q)
	if err != nil {
		if errors.Is(err, druginfo.ErrUpstream) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "drug label service unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"query": q, "results": labels})
}
