// handlers_charts.go - Chart data endpoints
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// HandleProgression returns the championship points progression for a season.
func (h *Handler) HandleProgression(c echo.Context) error {
	season, err := requiredIntParam(c, "season")
	if err != nil {
		return err
	}
	topN, err := intParam(c, "top", h.settings.Charts.TopDrivers)
	if err != nil {
		return err
	}

	series, qerr := h.queries.DriverProgression(c.Request().Context(), season, topN)
	if qerr != nil {
		return NewInternalError("progression query failed", qerr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"season": season,
		"series": series,
	})
}

// HandleProgressionMsgpack returns the progression payload msgpack-encoded.
// This is the dashboard's largest payload; the binary encoding roughly
// halves it for full modern seasons.
func (h *Handler) HandleProgressionMsgpack(c echo.Context) error {
	season, err := requiredIntParam(c, "season")
	if err != nil {
		return err
	}
	topN, err := intParam(c, "top", h.settings.Charts.TopDrivers)
	if err != nil {
		return err
	}

	series, qerr := h.queries.DriverProgression(c.Request().Context(), season, topN)
	if qerr != nil {
		return NewInternalError("progression query failed", qerr)
	}

	data, merr := msgpack.Marshal(map[string]interface{}{
		"season": season,
		"series": series,
	})
	if merr != nil {
		return NewInternalError("msgpack encoding failed", merr)
	}

	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// HandleConstructorHeatmap returns constructor points per season for the heatmap.
func (h *Handler) HandleConstructorHeatmap(c echo.Context) error {
	minSeason, _ := h.store.SeasonRange()
	from, err := intParam(c, "from", minSeason)
	if err != nil {
		return err
	}
	topN, err := intParam(c, "top", h.settings.Charts.TopConstructors)
	if err != nil {
		return err
	}

	cells, qerr := h.queries.ConstructorSeasonPoints(c.Request().Context(), from, topN)
	if qerr != nil {
		return NewInternalError("constructor heatmap query failed", qerr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"from":  from,
		"cells": cells,
	})
}

// HandleCircuitWinners returns the most successful drivers at a circuit.
func (h *Handler) HandleCircuitWinners(c echo.Context) error {
	circuit := c.QueryParam("circuit")
	if circuit == "" {
		return NewValidationError("circuit")
	}
	limit, err := intParam(c, "limit", h.settings.Charts.TopDrivers)
	if err != nil {
		return err
	}

	winners, qerr := h.queries.CircuitWinners(c.Request().Context(), circuit, limit)
	if qerr != nil {
		return NewInternalError("circuit winners query failed", qerr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"circuit": circuit,
		"winners": winners,
	})
}

// HandleHeadToHead compares two drivers across their careers.
func (h *Handler) HandleHeadToHead(c echo.Context) error {
	driver1, err := requiredIntParam(c, "driver1")
	if err != nil {
		return err
	}
	driver2, err := requiredIntParam(c, "driver2")
	if err != nil {
		return err
	}

	comparison, qerr := h.queries.HeadToHead(c.Request().Context(), driver1, driver2)
	if qerr != nil {
		return NewInternalError("head-to-head query failed", qerr)
	}

	return c.JSON(http.StatusOK, comparison)
}

// HandleTopDrivers returns the career points leaderboard.
func (h *Handler) HandleTopDrivers(c echo.Context) error {
	limit, err := intParam(c, "limit", h.settings.Charts.LeaderboardLimit)
	if err != nil {
		return err
	}

	leaders, qerr := h.queries.TopDrivers(c.Request().Context(), limit)
	if qerr != nil {
		return NewInternalError("top drivers query failed", qerr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"drivers": leaders,
	})
}

// HandleSeasonSummary returns the headline numbers for one season.
func (h *Handler) HandleSeasonSummary(c echo.Context) error {
	season, err := requiredIntParam(c, "season")
	if err != nil {
		return err
	}

	summary, qerr := h.queries.SeasonSummary(c.Request().Context(), season)
	if qerr != nil {
		return NewInternalError("season summary query failed", qerr)
	}

	return c.JSON(http.StatusOK, summary)
}
