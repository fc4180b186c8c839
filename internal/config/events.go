package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/coding-assessment/internal/events"
)

const (
	PublisherKafka = "kafka"
	PublisherMock  = "mock"
)

// EventConfig selects where session events go
type EventConfig struct {
	Enabled      bool
	Publisher    string
	KafkaBrokers string
	Topic        string
}

// GetKafkaBrokers splits the comma separated broker list, skipping blanks
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CreateEventPublisher builds the configured publisher. Disabled publishing
// and unknown publisher names fall back to the in-memory publisher.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, keeping session events in memory")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case PublisherKafka:
		brokers := c.GetKafkaBrokers()
		if len(brokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when EVENTS_PUBLISHER=kafka")
		}
		if c.Topic == "" {
			return nil, errors.New("EVENTS_TOPIC is required when EVENTS_PUBLISHER=kafka")
		}
		logger.Info("Creating Kafka event publisher",
			"brokers", brokers,
			"topic", c.Topic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: brokers,
			TopicName:    c.Topic,
			Logger:       logger,
		})
	case PublisherMock:
		logger.Info("Using in-memory event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to in-memory publisher", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
