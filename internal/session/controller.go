package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/SAP-F-2025/coding-assessment/internal/errors"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/runner"
)

// TestRunner executes code against test cases.
type TestRunner interface {
	Run(ctx context.Context, sourceCode string, languageID int, testCases []models.TestCase) (*runner.Outcome, error)
}

// SubmissionStore creates submission records. There is no update path.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, record *models.AssessmentResponse) (*models.AssessmentResponse, error)
}

// Listener is notified about session milestones. Calls happen outside the
// controller's lock.
type Listener interface {
	SessionStarted(ctx context.Context, s State)
	TabSwitched(ctx context.Context, s State, e TabSwitched)
	SessionSubmitted(ctx context.Context, s State)
}

type noopListener struct{}

func (noopListener) SessionStarted(context.Context, State)           {}
func (noopListener) TabSwitched(context.Context, State, TabSwitched) {}
func (noopListener) SessionSubmitted(context.Context, State)         {}

// Controller serializes events for one session and performs the effects the
// state machine asks for. Test runs and persistence happen without holding the
// lock, so ticks keep flowing while a run is polling.
type Controller struct {
	mu        sync.Mutex
	state     State
	updatedAt time.Time

	runner   TestRunner
	store    SubmissionStore
	listener Listener
	logger   *slog.Logger
	now      func() time.Time
}

type ControllerOption func(*Controller)

func WithListener(l Listener) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.listener = l
		}
	}
}

func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(initial State, testRunner TestRunner, store SubmissionStore, logger *slog.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		state:    initial,
		runner:   testRunner,
		store:    store,
		listener: noopListener{},
		logger:   logger.With("session_id", initial.ID),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.updatedAt = c.now()
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UpdatedAt is the time of the last accepted event.
func (c *Controller) UpdatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}

// Dispatch applies ev and performs the resulting effects. It returns the state
// after all effects have completed.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (State, error) {
	effects, err := c.apply(ev)
	if err != nil {
		return c.State(), err
	}

	var firstErr error
	for _, eff := range effects {
		if err := c.perform(ctx, eff); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return c.State(), firstErr
}

func (c *Controller) apply(ev Event) ([]Effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, effects, err := Apply(c.state, ev)
	if err != nil {
		return nil, err
	}
	c.state = next
	c.updatedAt = c.now()
	return effects, nil
}

func (c *Controller) perform(ctx context.Context, eff Effect) error {
	switch e := eff.(type) {
	case RunTests:
		return c.runTests(ctx, e)
	case Persist:
		return c.persist(ctx, e)
	case Started:
		c.logger.InfoContext(ctx, "Assessment session started",
			"assessment_id", c.State().AssessmentID)
		c.listener.SessionStarted(ctx, c.State())
	case TabSwitched:
		c.logger.InfoContext(ctx, "Tab switch detected",
			"count", e.Count,
			"question_index", e.QuestionIndex)
		c.listener.TabSwitched(ctx, c.State(), e)
	}
	return nil
}

// runTests lets an in-flight run finish even if the caller goes away. A result
// that arrives after completion is dropped by the state machine.
func (c *Controller) runTests(ctx context.Context, e RunTests) error {
	runCtx := context.WithoutCancel(ctx)
	outcome, err := c.runner.Run(runCtx, e.Code, e.LanguageID, e.TestCases)
	if err != nil {
		c.logger.ErrorContext(ctx, "Test run failed",
			"question_index", e.QuestionIndex,
			"error", err)
	}
	if _, applyErr := c.apply(RunFinished{
		RunID:         e.RunID,
		QuestionIndex: e.QuestionIndex,
		Outcome:       outcome,
		Err:           err,
	}); applyErr != nil {
		return applyErr
	}
	return err
}

func (c *Controller) persist(ctx context.Context, e Persist) error {
	saveCtx := context.WithoutCancel(ctx)
	record := *e.Record
	saved, err := c.store.CreateSubmission(saveCtx, &record)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to save submission",
			"assessment_id", record.AssessmentID,
			"error", err)
		_, _ = c.apply(SubmissionErrored{Err: err})
		return &apperrors.PersistenceError{SessionID: record.SessionID, Err: err}
	}

	if _, err := c.apply(SubmissionSaved{Record: saved}); err != nil {
		return err
	}
	state := c.State()
	c.logger.InfoContext(ctx, "Assessment submitted",
		"assessment_id", saved.AssessmentID,
		"response_id", saved.ID,
		"score", saved.Score)
	c.listener.SessionSubmitted(ctx, state)
	return nil
}
