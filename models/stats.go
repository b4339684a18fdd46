package models

type QueueStats struct {
	TotalServed  int          `json:"total_served"`
	AvgWaitTime  float64      `json:"avg_wait_time"`
	ActiveQueues int          `json:"active_queues"`
	PeakHour     string       `json:"peak_hour"`
	Hourly       []HourlyStat `json:"hourly"`
	Distribution []QueueShare `json:"distribution"`
}

type HourlyStat struct {
	Hour    string  `json:"hour"`
	Served  int     `json:"served"`
	AvgWait float64 `json:"avg_wait"`
}

type QueueShare struct {
	QueueID string  `json:"queue_id"`
	Name    string  `json:"name"`
	Waiting int     `json:"waiting"`
	Share   float64 `json:"share"` // percent of all waiting people
}
