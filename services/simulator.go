package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"smart-queue/monitoring"
)

// Simulator drives the periodic tick. One goroutine owns the ticker and
// every step runs to completion before the next one starts.
type Simulator struct {
	store    *QueueStore
	tickets  *TicketService
	stats    *StatsService
	monitor  *monitoring.Monitor
	interval time.Duration

	stepMu   sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewSimulator(store *QueueStore, tickets *TicketService, stats *StatsService, monitor *monitoring.Monitor, interval time.Duration) *Simulator {
	return &Simulator{
		store:    store,
		tickets:  tickets,
		stats:    stats,
		monitor:  monitor,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Step applies one tick: queue counters first, then the active tickets.
func (s *Simulator) Step(ctx context.Context) {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	start := time.Now()

	advanced := s.store.Tick()
	if s.stats != nil {
		s.stats.RecordServed(advanced)
	}
	s.tickets.Tick(ctx)

	s.monitor.TrackTick(time.Since(start).Seconds())
}

// Start runs the tick loop in the background until ctx is cancelled or
// Stop is called.
func (s *Simulator) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Simulator) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("simulator started", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			s.Step(ctx)
		case <-ctx.Done():
			slog.Info("simulator stopping", "reason", ctx.Err())
			return
		case <-s.stopChan:
			slog.Info("simulator stopping")
			return
		}
	}
}

// Stop ends the tick loop and waits for the in-flight step to finish.
func (s *Simulator) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}
