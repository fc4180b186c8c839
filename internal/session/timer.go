package session

import (
	"context"
	"log/slog"
	"time"
)

// DefaultTickInterval is the countdown resolution.
const DefaultTickInterval = time.Second

// Timer feeds Ticked events to a controller until the session completes, is
// unavailable, or ctx is cancelled. Ticks before the session is in progress
// are ignored by the state machine.
type Timer struct {
	controller *Controller
	interval   time.Duration
	logger     *slog.Logger
}

func NewTimer(controller *Controller, interval time.Duration, logger *slog.Logger) *Timer {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Timer{
		controller: controller,
		interval:   interval,
		logger:     logger,
	}
}

// Run blocks until the timer stops.
func (t *Timer) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state, err := t.controller.Dispatch(ctx, Ticked{})
			if err != nil {
				t.logger.ErrorContext(ctx, "Timer tick failed",
					"session_id", state.ID,
					"error", err)
			}
			if state.Phase == PhaseCompleted || state.Phase == PhaseUnavailable {
				return
			}
		}
	}
}
