package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v5"

	"smart-queue/services"
)

type AdminHandler struct {
	queues *services.QueueStore
	stats  *services.StatsService
}

func NewAdminHandler(queues *services.QueueStore, stats *services.StatsService) *AdminHandler {
	return &AdminHandler{
		queues: queues,
		stats:  stats,
	}
}

// GetStats - dashboard figures across all queues
func (h *AdminHandler) GetStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.stats.Stats())
}

// SetQueueActive - open or close a queue for new tickets
func (h *AdminHandler) SetQueueActive(c echo.Context) error {
	var req struct {
		IsActive *bool `json:"is_active"`
	}

	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return errorJSON(c, http.StatusBadRequest, "is_active required")
	}

	q, err := h.queues.SetActive(c.PathParam("id"), *req.IsActive)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("queue availability changed", "queue_id", q.ID, "is_active", q.IsActive)
	return c.JSON(http.StatusOK, q)
}
