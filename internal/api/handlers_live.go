// handlers_live.go - Proxy endpoints for the live standings API
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/f1-dashboard/backend/internal/live"
)

// HandleLiveDriverStandings returns the current driver championship table.
func (h *Handler) HandleLiveDriverStandings(c echo.Context) error {
	if h.live == nil {
		return NewServiceUnavailableError("live data is disabled")
	}
	season, err := intParam(c, "season", 0)
	if err != nil {
		return err
	}

	standings, lerr := h.live.DriverStandings(c.Request().Context(), season)
	if errors.Is(lerr, live.ErrNoData) {
		return c.JSON(http.StatusOK, map[string]interface{}{"standings": []struct{}{}})
	}
	if lerr != nil {
		return NewUpstreamError("live driver standings unavailable", lerr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"standings": standings})
}

// HandleLiveConstructorStandings returns the current constructor championship table.
func (h *Handler) HandleLiveConstructorStandings(c echo.Context) error {
	if h.live == nil {
		return NewServiceUnavailableError("live data is disabled")
	}
	season, err := intParam(c, "season", 0)
	if err != nil {
		return err
	}

	standings, lerr := h.live.ConstructorStandings(c.Request().Context(), season)
	if errors.Is(lerr, live.ErrNoData) {
		return c.JSON(http.StatusOK, map[string]interface{}{"standings": []struct{}{}})
	}
	if lerr != nil {
		return NewUpstreamError("live constructor standings unavailable", lerr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"standings": standings})
}

// HandleLiveCalendar returns the season calendar from the live API.
func (h *Handler) HandleLiveCalendar(c echo.Context) error {
	if h.live == nil {
		return NewServiceUnavailableError("live data is disabled")
	}
	season, err := intParam(c, "season", 0)
	if err != nil {
		return err
	}

	races, lerr := h.live.Calendar(c.Request().Context(), season)
	if errors.Is(lerr, live.ErrNoData) {
		return c.JSON(http.StatusOK, map[string]interface{}{"races": []struct{}{}})
	}
	if lerr != nil {
		return NewUpstreamError("live calendar unavailable", lerr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"races": races})
}

// HandleLiveLastResults returns the most recent race classification.
func (h *Handler) HandleLiveLastResults(c echo.Context) error {
	if h.live == nil {
		return NewServiceUnavailableError("live data is disabled")
	}
	season, err := intParam(c, "season", 0)
	if err != nil {
		return err
	}

	race, lerr := h.live.LastRaceResults(c.Request().Context(), season)
	if errors.Is(lerr, live.ErrNoData) {
		return c.JSON(http.StatusOK, map[string]interface{}{"race": nil})
	}
	if lerr != nil {
		return NewUpstreamError("live race results unavailable", lerr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"race": race})
}
