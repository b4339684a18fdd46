package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"smart-queue/config"
	"smart-queue/internal/status"
	"smart-queue/models"
	"smart-queue/monitoring"
)

// Notifier receives every notification the ticket service produces.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

type NotifierFunc func(ctx context.Context, n models.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n models.Notification) { f(ctx, n) }

// TicketService owns the active ticket of each session. A session holds at
// most one ticket at a time.
type TicketService struct {
	mu       sync.Mutex
	tickets  map[string]*models.Ticket
	store    *QueueStore
	random   Random
	notifier Notifier
	config   *config.Config
	monitor  *monitoring.Monitor
	now      func() time.Time
}

func NewTicketService(store *QueueStore, random Random, notifier Notifier, cfg *config.Config, monitor *monitoring.Monitor) *TicketService {
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, models.Notification) {})
	}
	return &TicketService{
		tickets:  make(map[string]*models.Ticket),
		store:    store,
		random:   random,
		notifier: notifier,
		config:   cfg,
		monitor:  monitor,
		now:      time.Now,
	}
}

// Join takes a ticket in queueID for the session.
func (s *TicketService) Join(ctx context.Context, sessionID, queueID string, isPriority bool) (models.Ticket, error) {
	if sessionID == "" {
		return models.Ticket{}, fmt.Errorf("join: missing session: %w", status.ErrInvalidState)
	}

	s.mu.Lock()
	if existing, ok := s.tickets[sessionID]; ok {
		s.mu.Unlock()
		return models.Ticket{}, fmt.Errorf("join: session already holds ticket #%d in %s: %w",
			existing.Number, existing.QueueName, status.ErrInvalidState)
	}

	ticket, err := s.store.Join(queueID, isPriority)
	if err != nil {
		s.mu.Unlock()
		return models.Ticket{}, err
	}
	ticket.SessionID = sessionID
	if ticket.Position == 0 {
		// issued at the front: served from the start
		now := s.now()
		ticket.ServedAt = &now
	}
	s.tickets[sessionID] = &ticket
	active := len(s.tickets)
	s.mu.Unlock()

	s.monitor.SetActiveTickets(active)
	slog.Info("ticket issued",
		"session_id", sessionID,
		"ticket_id", ticket.ID,
		"queue_id", queueID,
		"number", ticket.Number,
		"position", ticket.Position,
		"priority", isPriority,
	)

	s.notifier.Notify(ctx, s.notification(ticket, models.NotifyTicketCreated,
		"Ticket generated!",
		fmt.Sprintf("Your ticket #%d for %s", ticket.Number, ticket.QueueName)))
	if ticket.ServedAt != nil {
		s.notifier.Notify(ctx, s.thresholdNotification(ticket, models.NotifyTurn))
	}

	return ticket, nil
}

// Leave gives up the session's ticket and removes its holder from the line.
func (s *TicketService) Leave(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	ticket, ok := s.tickets[sessionID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("leave: no active ticket: %w", status.ErrInvalidState)
	}

	if err := s.store.Leave(ticket.QueueID); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.tickets, sessionID)
	left := *ticket
	active := len(s.tickets)
	s.mu.Unlock()

	s.monitor.SetActiveTickets(active)
	slog.Info("ticket released", "session_id", sessionID, "ticket_id", left.ID, "queue_id", left.QueueID)

	s.notifier.Notify(ctx, s.notification(left, models.NotifyLeft,
		"Left queue", "You have successfully left the queue"))
	return nil
}

// ToggleNotification flips the push opt-in of the session's ticket.
func (s *TicketService) ToggleNotification(ctx context.Context, sessionID string) (models.Ticket, error) {
	s.mu.Lock()
	ticket, ok := s.tickets[sessionID]
	if !ok {
		s.mu.Unlock()
		return models.Ticket{}, fmt.Errorf("toggle notification: no active ticket: %w", status.ErrInvalidState)
	}
	ticket.NotificationEnabled = !ticket.NotificationEnabled
	out := *ticket
	s.mu.Unlock()

	title, desc := "Notifications disabled", "You won't receive alerts"
	if out.NotificationEnabled {
		title, desc = "Notifications enabled", "We'll notify you when it's almost your turn"
	}
	s.notifier.Notify(ctx, s.notification(out, models.NotifyToggled, title, desc))

	return out, nil
}

func (s *TicketService) Active(sessionID string) (models.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[sessionID]
	if !ok {
		return models.Ticket{}, false
	}
	return *ticket, true
}

func (s *TicketService) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

// Recompute moves the ticket one simulation step forward and returns the
// thresholds it crossed on this step, in order.
func (s *TicketService) Recompute(ticket *models.Ticket) []models.NotificationKind {
	prev := ticket.Position
	if ticket.Position > 0 && s.random.Float64() < s.config.PositionProbability {
		ticket.Position--
	}
	ticket.EstimatedWait = s.estimateWait(ticket)

	var crossed []models.NotificationKind
	if prev > models.NextThreshold && ticket.Position <= models.NextThreshold {
		crossed = append(crossed, models.NotifyNext)
	}
	if prev > 0 && ticket.Position == 0 {
		now := s.now()
		ticket.ServedAt = &now
		crossed = append(crossed, models.NotifyTurn)
	}
	return crossed
}

// Tick recomputes every active ticket and publishes the notifications for
// the thresholds crossed. Tickets served longer than the configured TTL are
// expired without touching the queue: their holder has been called.
func (s *TicketService) Tick(ctx context.Context) {
	var pending []models.Notification

	s.mu.Lock()
	sessions := make([]string, 0, len(s.tickets))
	for id := range s.tickets {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)

	now := s.now()
	for _, id := range sessions {
		ticket := s.tickets[id]

		if s.expired(ticket, now) {
			delete(s.tickets, id)
			slog.Info("served ticket expired", "session_id", id, "ticket_id", ticket.ID, "queue_id", ticket.QueueID)
			continue
		}

		for _, kind := range s.Recompute(ticket) {
			pending = append(pending, s.thresholdNotification(*ticket, kind))
		}
	}
	active := len(s.tickets)
	s.mu.Unlock()

	s.monitor.SetActiveTickets(active)
	for _, n := range pending {
		s.notifier.Notify(ctx, n)
	}
}

func (s *TicketService) expired(ticket *models.Ticket, now time.Time) bool {
	ttl := s.config.ServedTicketTTL
	return ttl > 0 && ticket.ServedAt != nil && now.Sub(*ticket.ServedAt) >= ttl
}

func (s *TicketService) estimateWait(ticket *models.Ticket) float64 {
	rate := s.config.MinutesPerPerson
	if s.config.WaitModel == config.WaitModelQueue && ticket.MinutesPerPerson > 0 {
		rate = ticket.MinutesPerPerson
	}
	return decimal.NewFromFloat(rate).
		Mul(decimal.NewFromInt(int64(ticket.Position))).
		Round(1).
		InexactFloat64()
}

func (s *TicketService) thresholdNotification(ticket models.Ticket, kind models.NotificationKind) models.Notification {
	var n models.Notification
	switch kind {
	case models.NotifyTurn:
		n = s.notification(ticket, kind, "It's your turn!", fmt.Sprintf("Please proceed to %s", ticket.QueueName))
	default:
		n = s.notification(ticket, kind, "Get ready!", "You're next in line")
	}
	n.Push = ticket.NotificationEnabled
	return n
}

func (s *TicketService) notification(ticket models.Ticket, kind models.NotificationKind, title, desc string) models.Notification {
	return models.Notification{
		Kind:        kind,
		Title:       title,
		Description: desc,
		SessionID:   ticket.SessionID,
		TicketID:    ticket.ID,
		QueueID:     ticket.QueueID,
		CreatedAt:   s.now(),
	}
}
