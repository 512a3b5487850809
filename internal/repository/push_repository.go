package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PushPublisher publishes realtime notification payloads over redis pub/sub.
// Connected clients (web sockets, mobile gateways) subscribe per role or employee.
type PushPublisher struct {
	client *redis.Client
	prefix string
}

// NewPushPublisher constructs a publisher. A nil client yields a publisher that is never ready.
func NewPushPublisher(client *redis.Client, prefix string) *PushPublisher {
	if prefix == "" {
		prefix = "notifications"
	}
	return &PushPublisher{client: client, prefix: prefix}
}

// Ready reports whether the redis connection currently answers.
func (p *PushPublisher) Ready(ctx context.Context) bool {
	if p == nil || p.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return p.client.Ping(ctx).Err() == nil
}

// Channel builds the channel name for a recipient kind and key.
func (p *PushPublisher) Channel(kind, key string) string {
	return fmt.Sprintf("%s:%s:%s", p.prefix, kind, key)
}

// Publish sends payload to channel.
func (p *PushPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("push publisher not configured")
	}
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}
