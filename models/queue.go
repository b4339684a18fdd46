package models

type Queue struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CurrentNumber int    `json:"current_number"`
	WaitingCount  int    `json:"waiting_count"`
	AvgWaitTime   int    `json:"avg_wait_time"` // minutes
	IsActive      bool   `json:"is_active"`
	Location      string `json:"location"`
}

// DefaultQueues is the fixed set of counters a fresh store starts with.
func DefaultQueues() []Queue {
	return []Queue{
		{ID: "1", Name: "General Reception", CurrentNumber: 15, WaitingCount: 8, AvgWaitTime: 12, IsActive: true, Location: "Counter A"},
		{ID: "2", Name: "Emergency Services", CurrentNumber: 3, WaitingCount: 2, AvgWaitTime: 5, IsActive: true, Location: "Counter B"},
		{ID: "3", Name: "Specialist Consultation", CurrentNumber: 7, WaitingCount: 12, AvgWaitTime: 25, IsActive: true, Location: "Counter C"},
		{ID: "4", Name: "Pharmacy Counter", CurrentNumber: 22, WaitingCount: 5, AvgWaitTime: 8, IsActive: true, Location: "Counter D"},
	}
}
