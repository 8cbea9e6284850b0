// handlers_meta.go - Selector and theme endpoints for the frontend
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleSeasons returns every loaded season for the season selector.
func (h *Handler) HandleSeasons(c echo.Context) error {
	seasons, err := h.queries.Seasons(c.Request().Context())
	if err != nil {
		return NewInternalError("seasons query failed", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"seasons": seasons,
	})
}

// HandleDrivers returns driver selector entries, either for one season
// or the all-time points leaders.
func (h *Handler) HandleDrivers(c echo.Context) error {
	season, err := intParam(c, "season", 0)
	if err != nil {
		return err
	}
	limit, err := intParam(c, "limit", 50)
	if err != nil {
		return err
	}

	drivers, qerr := h.queries.DriversFor(c.Request().Context(), season, limit)
	if qerr != nil {
		return NewInternalError("drivers query failed", qerr)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"drivers": drivers,
	})
}

// HandleCircuits returns the circuit selector entries.
func (h *Handler) HandleCircuits(c echo.Context) error {
	circuits, err := h.queries.Circuits(c.Request().Context())
	if err != nil {
		return NewInternalError("circuits query failed", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"circuits": circuits,
	})
}

// HandleTheme returns the dashboard settings for the frontend.
func (h *Handler) HandleTheme(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settings)
}
