package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/f1-dashboard/backend/internal/dataset"
	"github.com/f1-dashboard/backend/internal/live"
	"github.com/f1-dashboard/backend/internal/schedule"
	"github.com/f1-dashboard/backend/internal/snapshot"
	"github.com/f1-dashboard/backend/internal/stats"
	"github.com/f1-dashboard/backend/internal/theme"
)

// Handler handles API requests.
type Handler struct {
	store     *dataset.Store
	queries   *stats.Queries
	sched     *schedule.Handler
	live      *live.Client // nil when the live API is disabled
	snapshots snapshot.Store
	settings  *theme.Settings
	version   string
}

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Store     *dataset.Store
	Queries   *stats.Queries
	Schedule  *schedule.Handler
	Live      *live.Client
	Snapshots snapshot.Store
	Settings  *theme.Settings
	Version   string
}

// NewHandler creates a new API handler.
func NewHandler(deps Dependencies) *Handler {
	settings := deps.Settings
	if settings == nil {
		settings = theme.DefaultSettings()
	}
	return &Handler{
		store:     deps.Store,
		queries:   deps.Queries,
		sched:     deps.Schedule,
		live:      deps.Live,
		snapshots: deps.Snapshots,
		settings:  settings,
		version:   deps.Version,
	}
}

// HandleHealth returns server health status and dataset row counts.
func (h *Handler) HandleHealth(c echo.Context) error {
	minSeason, maxSeason := h.store.SeasonRange()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"dataset": map[string]interface{}{
			"tables":      h.store.Counts(),
			"firstSeason": minSeason,
			"lastSeason":  maxSeason,
			"droppedRows": h.store.DroppedRows(),
		},
	})
}

// intParam parses an optional integer query parameter; def is returned
// when the parameter is absent.
func intParam(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, NewValidationError(name)
	}
	return n, nil
}

// requiredIntParam parses a required integer query parameter.
func requiredIntParam(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, NewValidationError(name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, NewValidationError(name)
	}
	return n, nil
}
