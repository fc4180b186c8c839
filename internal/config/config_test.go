package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/coding-assessment/internal/events"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "javascript", cfg.DefaultLanguage)
	assert.Equal(t, 10, cfg.Runner.MaxPollAttempts)
	assert.Equal(t, time.Second, cfg.Runner.PollInterval)
	assert.Equal(t, time.Second, cfg.Session.TickInterval)
	assert.Equal(t, "@every 1m", cfg.Session.SweepSpec)
	assert.Equal(t, 30*time.Minute, cfg.Session.Retention)
	assert.True(t, cfg.Events.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("RUNNER_MAX_POLL_ATTEMPTS", "3")
	t.Setenv("RUNNER_POLL_INTERVAL", "250ms")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SESSION_RETENTION", "not-a-duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.Runner.MaxPollAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Runner.PollInterval)
	assert.False(t, cfg.Events.Enabled)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.Session.Retention)
}

func TestEventConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := EventConfig{Enabled: true, KafkaBrokers: "a:9092, b:9092,"}
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.GetKafkaBrokers())

	disabled := EventConfig{Enabled: false, Publisher: "kafka"}
	pub, err := disabled.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)

	unknown := EventConfig{Enabled: true, Publisher: "rabbit"}
	pub, err = unknown.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)

	noBrokers := EventConfig{Enabled: true, Publisher: PublisherKafka, KafkaBrokers: " , ", Topic: "t"}
	_, err = noBrokers.CreateEventPublisher(logger)
	assert.ErrorContains(t, err, "KAFKA_BROKERS")

	noTopic := EventConfig{Enabled: true, Publisher: PublisherKafka, KafkaBrokers: "a:9092"}
	_, err = noTopic.CreateEventPublisher(logger)
	assert.ErrorContains(t, err, "EVENTS_TOPIC")
}
