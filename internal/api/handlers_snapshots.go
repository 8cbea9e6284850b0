// handlers_snapshots.go - Saved chart export endpoints
package api

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// knownCharts are the chart kinds a snapshot may be saved under.
var knownCharts = map[string]bool{
	"progression":     true,
	"constructors":    true,
	"circuit-winners": true,
	"head-to-head":    true,
	"top-drivers":     true,
	"season-summary":  true,
}

// HandleSaveSnapshot persists a chart payload sent by the frontend.
func (h *Handler) HandleSaveSnapshot(c echo.Context) error {
	var req struct {
		Chart   string          `json:"chart"`
		Title   string          `json:"title"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if !knownCharts[req.Chart] {
		return NewValidationError("chart")
	}
	if len(req.Payload) == 0 {
		return NewValidationError("payload")
	}
	if req.Title == "" {
		req.Title = req.Chart
	}

	info, err := h.snapshots.Save(req.Chart, req.Title, req.Payload)
	if err != nil {
		return NewInternalError("failed to save snapshot", err)
	}
	return c.JSON(http.StatusCreated, info)
}

// HandleRecentSnapshots lists recently saved snapshots.
func (h *Handler) HandleRecentSnapshots(c echo.Context) error {
	limit, err := intParam(c, "limit", 20)
	if err != nil {
		return err
	}

	list, serr := h.snapshots.List(limit)
	if serr != nil {
		return NewInternalError("failed to list snapshots", serr)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"snapshots": list})
}

// HandleGetSnapshot returns a full snapshot envelope.
func (h *Handler) HandleGetSnapshot(c echo.Context) error {
	id := c.Param("id")
	env, err := h.snapshots.Read(id)
	if err != nil {
		return NewNotFoundError("snapshot", id)
	}
	return c.JSON(http.StatusOK, env)
}

// HandleDeleteSnapshot removes a snapshot. Registered only when deletion
// is allowed by config.
func (h *Handler) HandleDeleteSnapshot(c echo.Context) error {
	id := c.Param("id")
	if err := h.snapshots.Delete(id); err != nil {
		return NewNotFoundError("snapshot", id)
	}
	return c.NoContent(http.StatusNoContent)
}
