package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"smart-queue/models"
)

// Monitor owns the service's prometheus collectors. A nil *Monitor is valid
// and records nothing.
type Monitor struct {
	waitingCount  *prometheus.GaugeVec
	currentNumber *prometheus.GaugeVec
	ticks         prometheus.Counter
	queueOps      *prometheus.CounterVec
	activeTickets prometheus.Gauge
	notifications *prometheus.CounterVec
	tickDuration  prometheus.Histogram
}

func NewMonitor(reg prometheus.Registerer) *Monitor {
	factory := promauto.With(reg)

	return &Monitor{
		waitingCount: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "queue_waiting_count",
				Help: "People currently waiting per queue",
			},
			[]string{"queue_id"},
		),
		currentNumber: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "queue_current_number",
				Help: "Last number called per queue",
			},
			[]string{"queue_id"},
		),
		ticks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "simulation_ticks_total",
				Help: "Simulation ticks applied",
			},
		),
		queueOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_operations_total",
				Help: "Total queue operations",
			},
			[]string{"operation", "queue_id", "status"},
		),
		activeTickets: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_tickets",
				Help: "Tickets currently held by sessions",
			},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notifications delivered per sink",
			},
			[]string{"kind", "sink", "status"},
		),
		tickDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "simulation_tick_duration_seconds",
				Help:    "Time spent applying one tick",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 10),
			},
		),
	}
}

// ObserveQueue exports the counters of a queue snapshot.
func (m *Monitor) ObserveQueue(q models.Queue) {
	if m == nil {
		return
	}
	m.waitingCount.WithLabelValues(q.ID).Set(float64(q.WaitingCount))
	m.currentNumber.WithLabelValues(q.ID).Set(float64(q.CurrentNumber))
}

func (m *Monitor) TrackTick(seconds float64) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(seconds)
}

// Track queue operations
func (m *Monitor) TrackQueueOperation(operation, queueID, status string) {
	if m == nil {
		return
	}
	m.queueOps.WithLabelValues(operation, queueID, status).Inc()
}

func (m *Monitor) TrackJoin(queueID string, priority bool, err error) {
	op := "join"
	if priority {
		op = "join_priority"
	}
	m.TrackQueueOperation(op, queueID, statusLabel(err))
}

func (m *Monitor) SetActiveTickets(n int) {
	if m == nil {
		return
	}
	m.activeTickets.Set(float64(n))
}

func (m *Monitor) TrackNotification(kind models.NotificationKind, sink string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(string(kind), sink, statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
