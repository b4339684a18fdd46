package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"smart-queue/internal/notify"
	"smart-queue/services"
)

type TicketHandler struct {
	queues  *services.QueueStore
	tickets *services.TicketService
	inbox   *notify.Inbox
}

func NewTicketHandler(queues *services.QueueStore, tickets *services.TicketService, inbox *notify.Inbox) *TicketHandler {
	return &TicketHandler{
		queues:  queues,
		tickets: tickets,
		inbox:   inbox,
	}
}

// requireSession rejects requests without a session header.
func requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if sessionID(c) == "" {
			return errorJSON(c, http.StatusBadRequest, "missing "+SessionHeader+" header")
		}
		return next(c)
	}
}

// GetTicket returns the session's ticket together with the number its queue
// is serving now.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	ticket, ok := h.tickets.Active(sessionID(c))
	if !ok {
		return errorJSON(c, http.StatusNotFound, "no active ticket")
	}

	current := 0
	if q, err := h.queues.Queue(ticket.QueueID); err == nil {
		current = q.CurrentNumber
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ticket":         ticket.View(),
		"current_number": current,
	})
}

func (h *TicketHandler) LeaveQueue(c echo.Context) error {
	if err := h.tickets.Leave(c.Request().Context(), sessionID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "You have successfully left the queue",
	})
}

func (h *TicketHandler) ToggleNotification(c echo.Context) error {
	ticket, err := h.tickets.ToggleNotification(c.Request().Context(), sessionID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticket.View())
}

// GetNotifications drains the session's pending notifications.
func (h *TicketHandler) GetNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, h.inbox.Drain(sessionID(c)))
}
