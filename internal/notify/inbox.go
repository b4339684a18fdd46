package notify

import (
	"context"
	"sync"

	"smart-queue/models"
)

const defaultInboxSize = 50

// Inbox keeps the latest notifications of each session in memory until the
// UI drains them.
type Inbox struct {
	mu    sync.Mutex
	size  int
	boxes map[string][]models.Notification
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = defaultInboxSize
	}
	return &Inbox{size: size, boxes: make(map[string][]models.Notification)}
}

func (i *Inbox) Name() string { return "inbox" }

func (i *Inbox) Deliver(_ context.Context, n models.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	box := append(i.boxes[n.SessionID], n)
	if len(box) > i.size {
		box = box[len(box)-i.size:]
	}
	i.boxes[n.SessionID] = box
	return nil
}

// Drain returns the pending notifications of a session, oldest first, and
// forgets them.
func (i *Inbox) Drain(sessionID string) []models.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	box := i.boxes[sessionID]
	delete(i.boxes, sessionID)
	if box == nil {
		return []models.Notification{}
	}
	return box
}
