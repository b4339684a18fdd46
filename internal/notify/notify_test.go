package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-queue/models"
	"smart-queue/monitoring"
)

type recordingSink struct {
	name string
	err  error
	got  []models.Notification
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, n models.Notification) error {
	s.got = append(s.got, n)
	return s.err
}

type recordingPublisher struct {
	channels []string
	messages []any
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, message any) error {
	p.channels = append(p.channels, channel)
	p.messages = append(p.messages, message)
	return nil
}

func testNotification(kind models.NotificationKind) models.Notification {
	return models.Notification{
		Kind:        kind,
		Title:       "It's your turn!",
		Description: "Please proceed to General Reception",
		SessionID:   "session-1",
		TicketID:    "ticket-1",
		QueueID:     "1",
		CreatedAt:   time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_DeliversToEverySink(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	d := NewDispatcher(monitoring.NewMonitor(prometheus.NewRegistry()), a, b)

	d.Notify(context.Background(), testNotification(models.NotifyTurn))

	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}

func TestDispatcher_FailingSinkDoesNotBlockOthers(t *testing.T) {
	broken := &recordingSink{name: "broken", err: errors.New("unreachable")}
	inbox := NewInbox(0)
	d := NewDispatcher(nil, broken, inbox)

	for i := 0; i < 10; i++ {
		d.Notify(context.Background(), testNotification(models.NotifyNext))
	}

	// the breaker opens after the fifth failure and stops calling the sink
	assert.Len(t, broken.got, 5)
	assert.Len(t, inbox.Drain("session-1"), 10)
}

// stallingSink blocks until its delivery context ends.
type stallingSink struct{}

func (stallingSink) Name() string { return "stalling" }

func (stallingSink) Deliver(ctx context.Context, _ models.Notification) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestDispatcher_SlowSinkIsCutOff(t *testing.T) {
	inbox := NewInbox(0)
	d := NewDispatcher(nil, stallingSink{}, inbox)
	d.SetTimeout(20 * time.Millisecond)

	start := time.Now()
	d.Notify(context.Background(), testNotification(models.NotifyTurn))

	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, inbox.Drain("session-1"), 1)
}

func TestInbox_DrainClears(t *testing.T) {
	inbox := NewInbox(10)
	ctx := context.Background()

	require.NoError(t, inbox.Deliver(ctx, testNotification(models.NotifyNext)))
	require.NoError(t, inbox.Deliver(ctx, testNotification(models.NotifyTurn)))

	got := inbox.Drain("session-1")
	require.Len(t, got, 2)
	assert.Equal(t, models.NotifyNext, got[0].Kind)
	assert.Equal(t, models.NotifyTurn, got[1].Kind)

	assert.Empty(t, inbox.Drain("session-1"))
	assert.NotNil(t, inbox.Drain("someone-else"))
}

func TestInbox_KeepsNewestWhenFull(t *testing.T) {
	inbox := NewInbox(2)
	ctx := context.Background()

	for _, kind := range []models.NotificationKind{models.NotifyTicketCreated, models.NotifyNext, models.NotifyTurn} {
		require.NoError(t, inbox.Deliver(ctx, testNotification(kind)))
	}

	got := inbox.Drain("session-1")
	require.Len(t, got, 2)
	assert.Equal(t, models.NotifyNext, got[0].Kind)
	assert.Equal(t, models.NotifyTurn, got[1].Kind)
}

func TestRedisSink_PublishesJSON(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sink := NewRedisSink(db)

	n := testNotification(models.NotifyTurn)
	data, err := json.Marshal(n)
	require.NoError(t, err)

	mock.ExpectPublish("notifications:session-1", string(data)).SetVal(1)

	err = sink.Deliver(context.Background(), n)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSink_PropagatesError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sink := NewRedisSink(db)

	n := testNotification(models.NotifyNext)
	data, _ := json.Marshal(n)
	mock.ExpectPublish("notifications:session-1", string(data)).SetErr(errors.New("connection refused"))

	err := sink.Deliver(context.Background(), n)

	assert.EqualError(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPubNubSink_OnlyPushesOptedIn(t *testing.T) {
	pub := &recordingPublisher{}
	sink := NewPubNubSinkWithPublisher(pub)
	ctx := context.Background()

	quiet := testNotification(models.NotifyNext)
	require.NoError(t, sink.Deliver(ctx, quiet))
	assert.Empty(t, pub.channels)

	loud := testNotification(models.NotifyTurn)
	loud.Push = true
	require.NoError(t, sink.Deliver(ctx, loud))

	require.Len(t, pub.channels, 1)
	assert.Equal(t, "ticket-session-1", pub.channels[0])
	msg, ok := pub.messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "queue_notification", msg["type"])
	assert.Equal(t, "turn", msg["kind"])
	assert.Equal(t, "It's your turn!", msg["title"])
}

func TestNewPubNub_DisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewPubNub("", "sub", "secret", "smart-queue"))
}
