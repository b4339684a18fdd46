package notify

import (
	"context"
	"fmt"

	pubnub "github.com/pubnub/go/v7"

	"smart-queue/models"
)

// Publisher is the slice of the PubNub client the sink needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) error
}

type pubnubPublisher struct {
	pn *pubnub.PubNub
}

// Publish gives up when ctx ends. The in-flight request is left to the
// client's own HTTP timeout.
func (p pubnubPublisher) Publish(ctx context.Context, channel string, message any) error {
	done := make(chan error, 1)
	go func() {
		_, _, err := p.pn.Publish().
			Channel(channel).
			Message(message).
			Execute()
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", channel, ctx.Err())
	}
}

// NewPubNub builds a client from keys. It returns nil when no publish key is
// configured.
func NewPubNub(publishKey, subscribeKey, secretKey, userID string) *pubnub.PubNub {
	if publishKey == "" {
		return nil
	}
	cfg := pubnub.NewConfigWithUserId(pubnub.UserId(userID))
	cfg.PublishKey = publishKey
	cfg.SubscribeKey = subscribeKey
	cfg.SecretKey = secretKey
	return pubnub.NewPubNub(cfg)
}

// PubNubSink pushes notifications to the ticket-<session> channel. Only
// notifications flagged Push are sent; the user opts in per ticket.
type PubNubSink struct {
	publisher Publisher
}

func NewPubNubSink(pn *pubnub.PubNub) *PubNubSink {
	return &PubNubSink{publisher: pubnubPublisher{pn: pn}}
}

func NewPubNubSinkWithPublisher(p Publisher) *PubNubSink {
	return &PubNubSink{publisher: p}
}

func (s *PubNubSink) Name() string { return "pubnub" }

func (s *PubNubSink) Deliver(ctx context.Context, n models.Notification) error {
	if !n.Push {
		return nil
	}

	channel := fmt.Sprintf("ticket-%s", n.SessionID)
	return s.publisher.Publish(ctx, channel, map[string]any{
		"type":        "queue_notification",
		"kind":        string(n.Kind),
		"title":       n.Title,
		"description": n.Description,
		"ticket_id":   n.TicketID,
		"queue_id":    n.QueueID,
	})
}
