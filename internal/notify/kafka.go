package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// KafkaSink streams notification envelopes to a Kafka topic for downstream
// consumers (analytics, external integrations). Room notifications are keyed
// by ticket id so one ticket's stream stays in partition order.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink creates a sink writing to the given brokers and topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// NotifyRoom streams a ticket-room envelope.
func (s *KafkaSink) NotifyRoom(ctx context.Context, ticketID int64, event string, payload any) error {
	return s.send(ctx, strconv.FormatInt(ticketID, 10), newEnvelope(event, &ticketID, payload))
}

// NotifyGlobal streams a global envelope.
func (s *KafkaSink) NotifyGlobal(ctx context.Context, event string, payload any) error {
	return s.send(ctx, "global", newEnvelope(event, nil, payload))
}

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func (s *KafkaSink) send(ctx context.Context, key string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	msg := kafka.Message{Key: []byte(key), Value: data}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}
