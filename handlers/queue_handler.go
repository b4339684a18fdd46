package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"smart-queue/services"
)

type QueueHandler struct {
	queues  *services.QueueStore
	tickets *services.TicketService
}

func NewQueueHandler(queues *services.QueueStore, tickets *services.TicketService) *QueueHandler {
	return &QueueHandler{
		queues:  queues,
		tickets: tickets,
	}
}

func (h *QueueHandler) ListQueues(c echo.Context) error {
	return c.JSON(http.StatusOK, h.queues.Queues())
}

func (h *QueueHandler) GetQueue(c echo.Context) error {
	q, err := h.queues.Queue(c.PathParam("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

// JoinQueue takes a ticket in the queue for the calling session. Callers
// without a session get a fresh one in the response.
func (h *QueueHandler) JoinQueue(c echo.Context) error {
	var req struct {
		IsPriority bool `json:"is_priority"`
	}

	// -1 is a chunked body of unknown length
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid request")
		}
	}

	session := sessionID(c)
	if session == "" {
		session = uuid.NewString()
	}

	ticket, err := h.tickets.Join(c.Request().Context(), session, c.PathParam("id"), req.IsPriority)
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(SessionHeader, session)
	return c.JSON(http.StatusCreated, map[string]any{
		"message":    "Successfully joined queue",
		"session_id": session,
		"ticket":     ticket.View(),
	})
}
