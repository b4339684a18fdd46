package models

import "time"

type NotificationKind string

const (
	NotifyNext          NotificationKind = "next"
	NotifyTurn          NotificationKind = "turn"
	NotifyTicketCreated NotificationKind = "ticket_created"
	NotifyLeft          NotificationKind = "left"
	NotifyToggled       NotificationKind = "notifications_toggled"
)

type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	SessionID   string           `json:"session_id"`
	TicketID    string           `json:"ticket_id,omitempty"`
	QueueID     string           `json:"queue_id,omitempty"`
	Push        bool             `json:"push"` // deliver to push channels too
	CreatedAt   time.Time        `json:"created_at"`
}
