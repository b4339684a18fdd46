package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smart-queue/config"
	"smart-queue/internal/status"
	"smart-queue/models"
	"smart-queue/monitoring"
)

type queueState struct {
	mu    sync.Mutex
	queue models.Queue
}

// QueueStore holds the live counters of every queue. The set of queues is
// fixed at construction; each queue is guarded by its own mutex so joins,
// leaves and ticks on one queue are serialized.
type QueueStore struct {
	order   []string
	queues  map[string]*queueState
	random  Random
	config  *config.Config
	monitor *monitoring.Monitor
	now     func() time.Time
}

func NewQueueStore(seed []models.Queue, random Random, cfg *config.Config, monitor *monitoring.Monitor) *QueueStore {
	s := &QueueStore{
		order:   make([]string, 0, len(seed)),
		queues:  make(map[string]*queueState, len(seed)),
		random:  random,
		config:  cfg,
		monitor: monitor,
		now:     time.Now,
	}

	for _, q := range seed {
		if q.WaitingCount < 0 {
			q.WaitingCount = 0
		}
		if _, dup := s.queues[q.ID]; dup {
			continue
		}
		s.order = append(s.order, q.ID)
		s.queues[q.ID] = &queueState{queue: q}
		monitor.ObserveQueue(q)
	}

	return s
}

// Tick advances every queue by one simulation step and returns the ids of
// the queues that called a new number.
func (s *QueueStore) Tick() []string {
	var advanced []string

	for _, id := range s.order {
		st := s.queues[id]

		st.mu.Lock()
		if s.random.Float64() < s.config.AdvanceProbability {
			st.queue.CurrentNumber++
			advanced = append(advanced, id)
		}
		if s.random.Float64() < 0.5 {
			st.queue.WaitingCount++
		} else if st.queue.WaitingCount > 0 {
			st.queue.WaitingCount--
		}
		snapshot := st.queue
		st.mu.Unlock()

		s.monitor.ObserveQueue(snapshot)
	}

	return advanced
}

// Join issues a ticket for the queue and adds its holder to the line.
// Priority holders are placed at the midpoint of the current line.
func (s *QueueStore) Join(queueID string, isPriority bool) (models.Ticket, error) {
	st, ok := s.queues[queueID]
	if !ok {
		s.monitor.TrackJoin(queueID, isPriority, status.ErrNotFound)
		return models.Ticket{}, fmt.Errorf("join %q: %w", queueID, status.ErrNotFound)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	q := &st.queue
	if !q.IsActive {
		s.monitor.TrackJoin(queueID, isPriority, status.ErrNotFound)
		return models.Ticket{}, fmt.Errorf("join %q: queue closed: %w", queueID, status.ErrNotFound)
	}

	position := q.WaitingCount
	if isPriority {
		position = q.WaitingCount / 2
	}
	estimate, perPerson := joinEstimate(position, q.WaitingCount, q.AvgWaitTime)

	ticket := models.Ticket{
		ID:               "ticket-" + uuid.NewString(),
		Number:           q.CurrentNumber + q.WaitingCount + 1,
		QueueID:          q.ID,
		QueueName:        q.Name,
		IsPriority:       isPriority,
		CreatedAt:        s.now(),
		Position:         position,
		EstimatedWait:    estimate,
		MinutesPerPerson: perPerson,
	}

	q.WaitingCount++

	s.monitor.ObserveQueue(*q)
	s.monitor.TrackJoin(queueID, isPriority, nil)
	return ticket, nil
}

// Leave removes one person from the queue's line. It never drops below zero.
func (s *QueueStore) Leave(queueID string) error {
	st, ok := s.queues[queueID]
	if !ok {
		s.monitor.TrackQueueOperation("leave", queueID, "error")
		return fmt.Errorf("leave %q: %w", queueID, status.ErrNotFound)
	}

	st.mu.Lock()
	if st.queue.WaitingCount > 0 {
		st.queue.WaitingCount--
	}
	snapshot := st.queue
	st.mu.Unlock()

	s.monitor.ObserveQueue(snapshot)
	s.monitor.TrackQueueOperation("leave", queueID, "success")
	return nil
}

// SetActive opens or closes a queue for new joins.
func (s *QueueStore) SetActive(queueID string, active bool) (models.Queue, error) {
	st, ok := s.queues[queueID]
	if !ok {
		return models.Queue{}, fmt.Errorf("set active %q: %w", queueID, status.ErrNotFound)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.queue.IsActive = active
	return st.queue, nil
}

func (s *QueueStore) Queue(queueID string) (models.Queue, error) {
	st, ok := s.queues[queueID]
	if !ok {
		return models.Queue{}, fmt.Errorf("queue %q: %w", queueID, status.ErrNotFound)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.queue, nil
}

// Queues returns a snapshot of every queue in creation order.
func (s *QueueStore) Queues() []models.Queue {
	out := make([]models.Queue, 0, len(s.order))
	for _, id := range s.order {
		st := s.queues[id]
		st.mu.Lock()
		out = append(out, st.queue)
		st.mu.Unlock()
	}
	return out
}

// joinEstimate returns the estimated wait in minutes for a new ticket and
// the per-person rate it implies. An empty line falls back to the queue's
// average wait.
func joinEstimate(position, waiting, avgWait int) (estimate, perPerson float64) {
	avg := decimal.NewFromInt(int64(avgWait))
	if waiting <= 0 {
		return avg.InexactFloat64(), avg.InexactFloat64()
	}

	w := decimal.NewFromInt(int64(waiting))
	est := avg.Mul(decimal.NewFromInt(int64(position))).Div(w).Round(1)
	return est.InexactFloat64(), avg.Div(w).InexactFloat64()
}
