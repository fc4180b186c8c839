package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsume(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	defer pubSub.Close()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	event := NewSessionEvent(EventSessionSubmitted, "sess-1", SessionSubmittedEvent{SessionID: "sess-1", Score: 75})
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, pubSub.Publish("sessions",
		message.NewMessage(watermill.NewUUID(), []byte("not json")),
		message.NewMessage(event.ID, payload),
	))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var attempts atomic.Int32
	received := make(chan *SessionEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- Consume(ctx, pubSub, "sessions", func(ctx context.Context, e *SessionEvent) error {
			if attempts.Add(1) == 1 {
				return errors.New("downstream unavailable")
			}
			received <- e
			return nil
		}, logger)
	}()

	select {
	case got := <-received:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, EventSessionSubmitted, got.Type)
		assert.Equal(t, "sess-1", got.Metadata["session_id"])
	case <-ctx.Done():
		t.Fatal("event was not consumed")
	}
	assert.EqualValues(t, 2, attempts.Load(), "nacked event is redelivered")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
