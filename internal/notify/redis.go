package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"smart-queue/models"
)

// RedisSink publishes every notification as JSON on notifications:<session>.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Name() string { return "redis" }

func ChannelFor(sessionID string) string {
	return fmt.Sprintf("notifications:%s", sessionID)
}

func (s *RedisSink) Deliver(ctx context.Context, n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, ChannelFor(n.SessionID), string(data)).Err()
}
