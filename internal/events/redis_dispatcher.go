package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisDispatcher fans events out to a Redis channel after the local handlers ran,
// so floor devices and other processes can follow request changes.
type redisDispatcher struct {
	local   Dispatcher
	client  *redis.Client
	channel string
}

// NewRedisDispatcher wraps local with Redis publication on channel.
// A nil client or empty channel returns local unchanged.
func NewRedisDispatcher(local Dispatcher, client *redis.Client, channel string) Dispatcher {
	if client == nil || channel == "" {
		return local
	}
	return &redisDispatcher{local: local, client: client, channel: channel}
}

func (d *redisDispatcher) Publish(ctx context.Context, event Event) error {
	localErr := d.local.Publish(ctx, event)

	body, err := json.Marshal(event)
	if err != nil {
		return errors.Join(localErr, fmt.Errorf("encode event: %w", err))
	}
	if err := d.client.Publish(ctx, d.channel, body).Err(); err != nil {
		return errors.Join(localErr, fmt.Errorf("publish to %s: %w", d.channel, err))
	}
	return localErr
}

func (d *redisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.local.Subscribe(eventType, handler)
}
