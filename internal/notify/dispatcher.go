// Package notify delivers ticket notifications to the places a user can see
// them: the in-app inbox polled by the UI, a Redis channel and PubNub.
package notify

import (
	"context"
	"log/slog"
	"time"

	"smart-queue/models"
	"smart-queue/monitoring"
	"smart-queue/utils"
)

// Sink is one delivery target.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n models.Notification) error
}

// DefaultSinkTimeout bounds one delivery so a slow sink cannot stall the tick.
const DefaultSinkTimeout = 2 * time.Second

type route struct {
	sink    Sink
	breaker *utils.CircuitBreaker
}

// Dispatcher fans a notification out to every sink. Each sink sits behind
// its own circuit breaker; a failing sink never blocks the others.
type Dispatcher struct {
	routes  []route
	monitor *monitoring.Monitor
	timeout time.Duration
}

func NewDispatcher(monitor *monitoring.Monitor, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{monitor: monitor, timeout: DefaultSinkTimeout}
	for _, s := range sinks {
		d.routes = append(d.routes, route{sink: s, breaker: utils.NewCircuitBreaker(s.Name())})
	}
	return d
}

// SetTimeout changes the per-delivery deadline. Zero disables it.
func (d *Dispatcher) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
}

func (d *Dispatcher) Notify(ctx context.Context, n models.Notification) {
	for _, r := range d.routes {
		sink := r.sink
		err := r.breaker.Execute(ctx, func(ctx context.Context) error {
			if d.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d.timeout)
				defer cancel()
			}
			return sink.Deliver(ctx, n)
		})
		d.monitor.TrackNotification(n.Kind, sink.Name(), err)
		if err != nil {
			slog.Warn("notification delivery failed",
				"sink", sink.Name(),
				"kind", n.Kind,
				"session_id", n.SessionID,
				"breaker", r.breaker.State().String(),
				"error", err,
			)
		}
	}
}
