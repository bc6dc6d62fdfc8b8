// Package events publishes domain events to subscribers.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
)

// ChannelPrefix prefixes every Redis channel; the event type follows it.
const ChannelPrefix = "launchcircle."

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// publishClient is the part of redis.Client the publisher needs.
type publishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes events as JSON on launchcircle.<type>.
type RedisPublisher struct {
	client publishClient
}

// NewRedisPublisher wraps a connected client.
func NewRedisPublisher(client publishClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Channel returns the channel an event type is published on.
func Channel(t model.EventType) string {
	return ChannelPrefix + string(t)
}

// Publish implements worker.Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: events travel by value
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(e.Type), body).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", Channel(e.Type), err)
	}
	return nil
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements worker.Publisher.
func (NopPublisher) Publish(context.Context, model.Event) error { return nil }
