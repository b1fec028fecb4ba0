package health

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers serves the health endpoints.
type Handlers struct {
	health *Service
	checks map[string]CheckFunc
}

// NewHandlers creates health handlers. checks maps catalog IDs to the
// function that tests them on demand.
func NewHandlers(health *Service, checks map[string]CheckFunc) *Handlers {
	return &Handlers{health: health, checks: checks}
}

// RegisterRoutes registers health routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetReport)
	g.GET("/summary", h.GetSummary)
	g.POST("/catalog/:id/test", h.TestCatalog)
}

// GetReport returns the state of every catalog.
// GET /api/v1/health
func (h *Handlers) GetReport(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.Report())
}

// GetSummary returns status counts.
// GET /api/v1/health/summary
func (h *Handlers) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.Summary())
}

// TestCatalog checks one catalog now and returns its recorded state.
// POST /api/v1/health/catalog/:id/test
func (h *Handlers) TestCatalog(c echo.Context) error {
	id := c.Param("id")
	check, ok := h.checks[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown catalog")
	}

	state, err := h.health.Check(c.Request().Context(), id, check)
	if err != nil && state.ID == "" {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, state)
}
