// handlers_schedule.go - Race calendar and countdown endpoints
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/f1-dashboard/backend/internal/schedule"
)

// HandleSchedule returns the upcoming race calendar.
func (h *Handler) HandleSchedule(c echo.Context) error {
	if h.sched == nil {
		return NewServiceUnavailableError("race schedule not loaded")
	}

	races := h.sched.Upcoming(time.Now().UTC())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"races": races,
	})
}

// HandleNextRace returns the next race with a countdown to each session.
func (h *Handler) HandleNextRace(c echo.Context) error {
	if h.sched == nil {
		return NewServiceUnavailableError("race schedule not loaded")
	}

	now := time.Now().UTC()
	race, ok := h.sched.NextRace(now)
	if !ok {
		// Season over: an empty body, not an error.
		return c.JSON(http.StatusOK, map[string]interface{}{
			"race": nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"race":      race,
		"countdown": schedule.Countdown(race.Sessions.GP, now),
	})
}
