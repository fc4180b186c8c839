package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/SAP-F-2025/coding-assessment/internal/events"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"github.com/SAP-F-2025/coding-assessment/internal/session"
	"github.com/SAP-F-2025/coding-assessment/internal/validator"
)

// loadFailedReason is shown to candidates when the assessment could not be
// read; the underlying error is only logged.
const loadFailedReason = "failed to load assessment"

// SessionConfig controls live session behaviour
type SessionConfig struct {
	TickInterval    time.Duration
	Retention       time.Duration
	DefaultLanguage string
}

type liveSession struct {
	controller *session.Controller
	stopTimer  context.CancelFunc

	mu           sync.Mutex
	lastActivity time.Time
}

func (l *liveSession) touch(now time.Time) {
	l.mu.Lock()
	l.lastActivity = now
	l.mu.Unlock()
}

func (l *liveSession) idleSince() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastActivity
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession

	loader    *AssessmentLoader
	runner    session.TestRunner
	store     session.SubmissionStore
	listener  session.Listener
	validator *validator.Validator
	logger    *slog.Logger
	config    SessionConfig
	now       func() time.Time

	// timers outlive the request that started them
	baseCtx context.Context
	cancel  context.CancelFunc
	cron    *cron.Cron
}

func NewSessionService(
	repo repositories.Repository,
	loader *AssessmentLoader,
	testRunner session.TestRunner,
	store session.SubmissionStore,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
	config SessionConfig,
) SessionService {
	if config.TickInterval <= 0 {
		config.TickInterval = session.DefaultTickInterval
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &sessionService{
		sessions:  make(map[string]*liveSession),
		loader:    loader,
		runner:    testRunner,
		store:     store,
		listener:  newSessionListener(repo, publisher, logger),
		validator: validator,
		logger:    logger,
		config:    config,
		now:       time.Now,
		baseCtx:   baseCtx,
		cancel:    cancel,
	}
}

// ===== SESSION LIFECYCLE =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest) (*SessionView, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := s.logger.With("session_id", id, "assessment_id", req.AssessmentID)
	logger.InfoContext(ctx, "Starting assessment session", "interview_id", req.InterviewID)

	state := session.NewState(id, req.InterviewID, req.AssessmentID, session.Candidate{
		Name:  req.Name,
		Email: req.Email,
	})
	controller := session.NewController(state, s.runner, s.store, s.logger,
		session.WithListener(s.listener))

	partial, err := s.load(ctx, req.AssessmentID)
	if err != nil {
		reason := err.Error()
		if !errors.Is(err, ErrNoAssessmentLinked) && !errors.Is(err, ErrAssessmentNotFound) &&
			!errors.Is(err, ErrAssessmentInactive) {
			logger.ErrorContext(ctx, "Failed to load assessment", "error", err)
			reason = loadFailedReason
		} else {
			logger.WarnContext(ctx, "Assessment unavailable", "reason", err)
		}
		state, err = controller.Dispatch(ctx, session.LoadFailed{Reason: reason})
		if err != nil {
			return nil, err
		}
		s.register(id, &liveSession{controller: controller, stopTimer: func() {}, lastActivity: s.now()})
		return newSessionView(state), nil
	}

	if len(partial.Unresolved) > 0 {
		logger.WarnContext(ctx, "Assessment loaded with unresolved questions",
			"unresolved", partial.Unresolved,
			"resolved", len(partial.Questions))
	}

	live := &liveSession{controller: controller, stopTimer: func() {}, lastActivity: s.now()}
	s.register(id, live)

	state, err = controller.Dispatch(ctx, session.Loaded{
		Assessment: *partial.Assessment,
		Questions:  partial.Questions,
		Unresolved: partial.Unresolved,
		Language:   s.config.DefaultLanguage,
	})
	if err != nil {
		return nil, err
	}

	if state.Phase != session.PhaseUnavailable {
		timerCtx, stop := context.WithCancel(s.baseCtx)
		live.stopTimer = stop
		timer := session.NewTimer(controller, s.config.TickInterval, s.logger)
		go timer.Run(timerCtx)
	}

	return newSessionView(state), nil
}

func (s *sessionService) load(ctx context.Context, assessmentID uint) (*PartialAssessment, error) {
	if assessmentID == 0 {
		return nil, ErrNoAssessmentLinked
	}
	return s.loader.Load(ctx, assessmentID)
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*SessionView, error) {
	live, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionView(live.controller.State()), nil
}

// ===== CANDIDATE ACTIONS =====

func (s *sessionService) SubmitCandidate(ctx context.Context, sessionID string, req *CandidateRequest) (*SessionView, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, sessionID, session.CandidateSubmitted{Name: req.Name, Email: req.Email})
}

func (s *sessionService) ChangeLanguage(ctx context.Context, sessionID string, language string) (*SessionView, error) {
	return s.dispatch(ctx, sessionID, session.LanguageChanged{Language: language})
}

func (s *sessionService) EditCode(ctx context.Context, sessionID string, code string) (*SessionView, error) {
	return s.dispatch(ctx, sessionID, session.CodeEdited{Code: code})
}

func (s *sessionService) Navigate(ctx context.Context, sessionID string, delta int) (*SessionView, error) {
	return s.dispatch(ctx, sessionID, session.Navigated{Delta: delta})
}

func (s *sessionService) RunTests(ctx context.Context, sessionID string, testIndex *int) (*SessionView, error) {
	return s.dispatch(ctx, sessionID, session.RunRequested{TestIndex: testIndex})
}

func (s *sessionService) Submit(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.dispatch(ctx, sessionID, session.SubmitRequested{})
}

func (s *sessionService) RetrySubmit(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.dispatch(ctx, sessionID, session.RetryRequested{})
}

func (s *sessionService) SetVisibility(ctx context.Context, sessionID string, hidden bool) (*SessionView, error) {
	return s.dispatch(ctx, sessionID, session.VisibilityChanged{Hidden: hidden})
}

// dispatch returns the view alongside any error, so callers can show the
// session state that resulted from a failed run or save.
func (s *sessionService) dispatch(ctx context.Context, sessionID string, ev session.Event) (*SessionView, error) {
	live, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	live.touch(s.now())

	state, err := live.controller.Dispatch(ctx, ev)
	return newSessionView(state), err
}

// ===== REGISTRY =====

func (s *sessionService) register(id string, live *liveSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = live
}

func (s *sessionService) lookup(id string) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return live, nil
}

// Sweep evicts sessions idle for longer than the retention period. Sessions in
// progress are never evicted; their timer completes them.
func (s *sessionService) Sweep(ctx context.Context) int {
	if s.config.Retention <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.config.Retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, live := range s.sessions {
		state := live.controller.State()
		if state.Phase == session.PhaseInProgress {
			continue
		}

		last := live.idleSince()
		if state.Phase == session.PhaseCompleted || state.Phase == session.PhaseUnavailable {
			if updated := live.controller.UpdatedAt(); updated.After(last) {
				last = updated
			}
		}
		if last.After(cutoff) {
			continue
		}

		if state.SubmissionStatus == session.StatusFailed || state.SubmissionStatus == session.StatusPending {
			s.logger.WarnContext(ctx, "Evicting session with unsaved submission",
				"session_id", id,
				"assessment_id", state.AssessmentID)
		}
		live.stopTimer()
		delete(s.sessions, id)
		evicted++
	}

	if evicted > 0 {
		s.logger.InfoContext(ctx, "Evicted idle sessions", "count", evicted, "remaining", len(s.sessions))
	}
	return evicted
}

// StartSweeper runs Sweep on the given cron schedule until Shutdown.
func (s *sessionService) StartSweeper(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		s.Sweep(s.baseCtx)
	}); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("Session sweeper started", "schedule", spec, "retention", s.config.Retention)
	return nil
}

// Shutdown stops the sweeper and every session timer.
func (s *sessionService) Shutdown() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.cancel()
}
