package models

import (
	"time"
)

const (
	TicketWaiting = "waiting"
	TicketNext    = "next"    // position <= 2
	TicketServing = "serving" // position == 0
)

// NextThreshold is the position at or below which a ticket holder should get ready.
const NextThreshold = 2

type Ticket struct {
	ID                  string     `json:"id"`
	SessionID           string     `json:"session_id"`
	Number              int        `json:"number"`
	QueueID             string     `json:"queue_id"`
	QueueName           string     `json:"queue_name"`
	IsPriority          bool       `json:"is_priority"`
	CreatedAt           time.Time  `json:"created_at"`
	Position            int        `json:"position"`
	EstimatedWait       float64    `json:"estimated_wait"` // minutes
	NotificationEnabled bool       `json:"notification_enabled"`
	ServedAt            *time.Time `json:"served_at,omitempty"`

	// MinutesPerPerson is the per-person rate fixed at join time, used by the
	// queue wait model.
	MinutesPerPerson float64 `json:"-"`
}

func (t Ticket) Status() string {
	switch {
	case t.Position == 0:
		return TicketServing
	case t.Position <= NextThreshold:
		return TicketNext
	default:
		return TicketWaiting
	}
}

// TicketView is the wire shape returned to clients: the ticket plus its
// derived status.
type TicketView struct {
	Ticket
	Status string `json:"status"`
}

func (t Ticket) View() TicketView {
	return TicketView{Ticket: t, Status: t.Status()}
}
