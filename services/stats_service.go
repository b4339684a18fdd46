package services

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"smart-queue/config"
	"smart-queue/models"
)

// StatsService aggregates the admin dashboard figures from the live store
// and the numbers called since start.
type StatsService struct {
	store  *QueueStore
	config *config.Config
	now    func() time.Time

	mu      sync.Mutex
	total   int
	served  [24]int
	waitSum [24]int
}

func NewStatsService(store *QueueStore, cfg *config.Config) *StatsService {
	return &StatsService{store: store, config: cfg, now: time.Now}
}

// RecordServed counts one served person for each queue id, bucketed by the
// current hour of day.
func (s *StatsService) RecordServed(queueIDs []string) {
	if len(queueIDs) == 0 {
		return
	}

	hour := s.now().Hour()
	waits := make([]int, 0, len(queueIDs))
	for _, id := range queueIDs {
		q, err := s.store.Queue(id)
		if err != nil {
			continue
		}
		waits = append(waits, q.AvgWaitTime)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range waits {
		s.total++
		s.served[hour]++
		s.waitSum[hour] += w
	}
}

func (s *StatsService) Stats() models.QueueStats {
	queues := s.store.Queues()

	stats := models.QueueStats{
		Hourly:       []models.HourlyStat{},
		Distribution: make([]models.QueueShare, 0, len(queues)),
	}

	var avgSum, totalWaiting int
	for _, q := range queues {
		if q.IsActive {
			stats.ActiveQueues++
			avgSum += q.AvgWaitTime
		}
		totalWaiting += q.WaitingCount
	}
	if stats.ActiveQueues > 0 {
		stats.AvgWaitTime = ratio(avgSum, stats.ActiveQueues, 1)
	}

	for _, q := range queues {
		share := 0.0
		if totalWaiting > 0 {
			share = ratio(q.WaitingCount*100, totalWaiting, 1)
		}
		stats.Distribution = append(stats.Distribution, models.QueueShare{
			QueueID: q.ID,
			Name:    q.Name,
			Waiting: q.WaitingCount,
			Share:   share,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats.TotalServed = s.config.TotalServedBaseline + s.total
	stats.PeakHour = s.config.PeakHourFallback

	peak := -1
	for h := 0; h < 24; h++ {
		if s.served[h] == 0 {
			continue
		}
		stats.Hourly = append(stats.Hourly, models.HourlyStat{
			Hour:    hourLabel(h, "3PM"),
			Served:  s.served[h],
			AvgWait: ratio(s.waitSum[h], s.served[h], 1),
		})
		if peak < 0 || s.served[h] > s.served[peak] {
			peak = h
		}
	}
	if peak >= 0 {
		stats.PeakHour = hourLabel(peak, "3:04 PM")
	}

	return stats
}

func ratio(num, den int, places int32) float64 {
	return decimal.NewFromInt(int64(num)).
		Div(decimal.NewFromInt(int64(den))).
		Round(places).
		InexactFloat64()
}

func hourLabel(hour int, layout string) string {
	return time.Date(2000, time.January, 1, hour, 0, 0, 0, time.UTC).Format(layout)
}
