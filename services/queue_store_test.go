package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-queue/config"
	"smart-queue/internal/status"
	"smart-queue/models"
)

// scriptedRandom replays values in order and then repeats fallback.
type scriptedRandom struct {
	mu       sync.Mutex
	values   []float64
	fallback float64
}

func (r *scriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return r.fallback
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

func testConfig() *config.Config {
	return &config.Config{
		AdvanceProbability:  0.3,
		PositionProbability: 0.3,
		MinutesPerPerson:    3,
		WaitModel:           config.WaitModelLinear,
		TotalServedBaseline: 245,
		PeakHourFallback:    "1:00 PM",
	}
}

func receptionQueue() models.Queue {
	return models.Queue{
		ID:            "1",
		Name:          "General Reception",
		CurrentNumber: 15,
		WaitingCount:  8,
		AvgWaitTime:   12,
		IsActive:      true,
		Location:      "Counter A",
	}
}

func setupTestStore(random Random, queues ...models.Queue) *QueueStore {
	if len(queues) == 0 {
		queues = []models.Queue{receptionQueue()}
	}
	return NewQueueStore(queues, random, testConfig(), nil)
}

func invariant(t *testing.T, qs []models.Queue) {
	t.Helper()
	for _, q := range qs {
		if q.WaitingCount < 0 {
			t.Fatalf("queue %s: negative waiting count %d", q.ID, q.WaitingCount)
		}
	}
}

func TestQueueStore_JoinExampleScenario(t *testing.T) {
	store := setupTestStore(&scriptedRandom{})

	ticket, err := store.Join("1", false)

	require.NoError(t, err)
	assert.Equal(t, 24, ticket.Number)
	assert.Equal(t, 8, ticket.Position)
	assert.Equal(t, 12.0, ticket.EstimatedWait)
	assert.Equal(t, "1", ticket.QueueID)
	assert.Equal(t, "General Reception", ticket.QueueName)
	assert.False(t, ticket.IsPriority)
	assert.False(t, ticket.NotificationEnabled)
	assert.NotEmpty(t, ticket.ID)
}

func TestQueueStore_PriorityJoinExampleScenario(t *testing.T) {
	store := setupTestStore(&scriptedRandom{})

	ticket, err := store.Join("1", true)

	require.NoError(t, err)
	assert.Equal(t, 24, ticket.Number)
	assert.Equal(t, 4, ticket.Position)
	assert.Equal(t, 6.0, ticket.EstimatedWait)
	assert.True(t, ticket.IsPriority)
}

func TestQueueStore_PriorityNeverWorsensPosition(t *testing.T) {
	for waiting := 0; waiting < 30; waiting++ {
		q := receptionQueue()
		q.WaitingCount = waiting

		regular, err := setupTestStore(&scriptedRandom{}, q).Join("1", false)
		require.NoError(t, err)
		priority, err := setupTestStore(&scriptedRandom{}, q).Join("1", true)
		require.NoError(t, err)

		assert.LessOrEqual(t, priority.Position, regular.Position, "waiting=%d", waiting)
		assert.Equal(t, regular.Number, priority.Number)
	}
}

func TestQueueStore_JoinEmptyQueueFallsBackToAverage(t *testing.T) {
	q := receptionQueue()
	q.WaitingCount = 0
	store := setupTestStore(&scriptedRandom{}, q)

	ticket, err := store.Join("1", false)

	require.NoError(t, err)
	assert.Equal(t, 0, ticket.Position)
	assert.Equal(t, 12.0, ticket.EstimatedWait)
	assert.Equal(t, 16, ticket.Number)
}

func TestQueueStore_PriorityAtFrontEstimatesZero(t *testing.T) {
	store := setupTestStore(&scriptedRandom{}, queueWithWaiting(1))

	ticket, err := store.Join("1", true)

	require.NoError(t, err)
	assert.Equal(t, 0, ticket.Position)
	assert.Equal(t, 0.0, ticket.EstimatedWait) // 12*0/1, no fallback to the average
}

func TestQueueStore_JoinIncrementsWaitingByOne(t *testing.T) {
	store := setupTestStore(&scriptedRandom{})

	_, err := store.Join("1", true)
	require.NoError(t, err)

	q, err := store.Queue("1")
	require.NoError(t, err)
	assert.Equal(t, 9, q.WaitingCount)
	assert.Equal(t, 15, q.CurrentNumber)
}

func TestQueueStore_JoinUnknownQueue(t *testing.T) {
	store := setupTestStore(&scriptedRandom{})
	before := store.Queues()

	_, err := store.Join("42", false)

	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.Equal(t, before, store.Queues())
}

func TestQueueStore_JoinClosedQueue(t *testing.T) {
	store := setupTestStore(&scriptedRandom{})
	_, err := store.SetActive("1", false)
	require.NoError(t, err)
	before := store.Queues()

	_, err = store.Join("1", false)

	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.Equal(t, before, store.Queues())

	q, err := store.SetActive("1", true)
	require.NoError(t, err)
	assert.True(t, q.IsActive)
	_, err = store.Join("1", false)
	assert.NoError(t, err)
}

func TestQueueStore_LeaveClampsAtZero(t *testing.T) {
	q := receptionQueue()
	q.WaitingCount = 1
	store := setupTestStore(&scriptedRandom{}, q)

	require.NoError(t, store.Leave("1"))
	got, _ := store.Queue("1")
	assert.Equal(t, 0, got.WaitingCount)

	require.NoError(t, store.Leave("1"))
	got, _ = store.Queue("1")
	assert.Equal(t, 0, got.WaitingCount)

	assert.ErrorIs(t, store.Leave("missing"), status.ErrNotFound)
}

func TestQueueStore_TickIsScripted(t *testing.T) {
	a := receptionQueue()
	b := models.Queue{ID: "2", Name: "Emergency Services", CurrentNumber: 3, WaitingCount: 0, AvgWaitTime: 5, IsActive: true}
	// queue 1 advances and grows, queue 2 stays and tries to shrink below zero
	random := &scriptedRandom{values: []float64{0.1, 0.2, 0.9, 0.7}}
	store := setupTestStore(random, a, b)

	advanced := store.Tick()

	assert.Equal(t, []string{"1"}, advanced)
	qs := store.Queues()
	assert.Equal(t, 16, qs[0].CurrentNumber)
	assert.Equal(t, 9, qs[0].WaitingCount)
	assert.Equal(t, 3, qs[1].CurrentNumber)
	assert.Equal(t, 0, qs[1].WaitingCount)
}

func TestQueueStore_TickInvariants(t *testing.T) {
	store := NewQueueStore(models.DefaultQueues(), NewRandom(7), testConfig(), nil)
	prev := store.Queues()

	for i := 0; i < 2000; i++ {
		switch i % 5 {
		case 0:
			_, _ = store.Join(prev[i%len(prev)].ID, i%2 == 0)
		case 1:
			_ = store.Leave(prev[i%len(prev)].ID)
		default:
			store.Tick()
		}

		cur := store.Queues()
		invariant(t, cur)
		for j := range cur {
			if cur[j].CurrentNumber < prev[j].CurrentNumber {
				t.Fatalf("queue %s: current number went from %d to %d", cur[j].ID, prev[j].CurrentNumber, cur[j].CurrentNumber)
			}
		}
		prev = cur
	}
}

func TestQueueStore_ConcurrentOps(t *testing.T) {
	store := NewQueueStore(models.DefaultQueues(), NewRandom(11), testConfig(), nil)
	ids := []string{"1", "2", "3", "4"}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(gid int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				id := ids[(gid+j)%len(ids)]
				switch j % 3 {
				case 0:
					_, _ = store.Join(id, gid%2 == 0)
				case 1:
					_ = store.Leave(id)
				default:
					store.Tick()
				}
			}
		}(g)
	}
	wg.Wait()

	invariant(t, store.Queues())
}

func TestQueueStore_QueuesKeepsSeedOrder(t *testing.T) {
	store := NewQueueStore(models.DefaultQueues(), &scriptedRandom{}, testConfig(), nil)

	qs := store.Queues()

	require.Len(t, qs, 4)
	assert.Equal(t, "General Reception", qs[0].Name)
	assert.Equal(t, "Pharmacy Counter", qs[3].Name)
}
