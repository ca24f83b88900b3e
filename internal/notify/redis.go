package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes notification envelopes on Redis pub/sub channels. A
// downstream WebSocket hub subscribed to "<prefix>ticket:<id>" or
// "<prefix>global" relays them to connected clients.
type RedisSink struct {
	client *redis.Client
	prefix string
}

// NewRedisSink creates the sink.
func NewRedisSink(client *redis.Client, channelPrefix string) *RedisSink {
	return &RedisSink{client: client, prefix: channelPrefix}
}

// NotifyRoom publishes to the ticket's room channel.
func (s *RedisSink) NotifyRoom(ctx context.Context, ticketID int64, event string, payload any) error {
	return s.publish(ctx, s.roomChannel(ticketID), newEnvelope(event, &ticketID, payload))
}

// NotifyGlobal publishes to the shared global channel.
func (s *RedisSink) NotifyGlobal(ctx context.Context, event string, payload any) error {
	return s.publish(ctx, s.prefix+"global", newEnvelope(event, nil, payload))
}

func (s *RedisSink) roomChannel(ticketID int64) string {
	return fmt.Sprintf("%sticket:%d", s.prefix, ticketID)
}

func (s *RedisSink) publish(ctx context.Context, channel string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := s.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}
