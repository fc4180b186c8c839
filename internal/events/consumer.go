package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// SessionEventHandler processes one consumed session event. Returning an error
// nacks the message so it is redelivered.
type SessionEventHandler func(ctx context.Context, event *SessionEvent) error

// SubscriberConfig holds configuration for a downstream consumer of session
// events
type SubscriberConfig struct {
	KafkaBrokers  []string
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewKafkaSubscriber creates a Watermill subscriber for the session topic
func NewKafkaSubscriber(config SubscriberConfig) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               config.KafkaBrokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
		ConsumerGroup:         config.ConsumerGroup,
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return subscriber, nil
}

// Consume feeds every message on topic to handle until ctx is done or the
// subscriber closes. Payloads that are not session events are acked and
// dropped.
func Consume(ctx context.Context, subscriber message.Subscriber, topic string, handle SessionEventHandler, logger *slog.Logger) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var event SessionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logger.WarnContext(ctx, "Dropping malformed session event",
					"message_uuid", msg.UUID,
					"error", err)
				msg.Ack()
				continue
			}

			if err := handle(msg.Context(), &event); err != nil {
				logger.ErrorContext(ctx, "Failed to handle session event",
					"event_id", event.ID,
					"event_type", event.Type,
					"error", err)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}
}
