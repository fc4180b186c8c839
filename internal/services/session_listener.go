package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/coding-assessment/internal/events"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"github.com/SAP-F-2025/coding-assessment/internal/session"
)

// sessionListener publishes session milestones and records integrity events.
// Failures are logged and never affect the session.
type sessionListener struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func newSessionListener(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) *sessionListener {
	return &sessionListener{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (l *sessionListener) SessionStarted(ctx context.Context, s session.State) {
	l.publish(ctx, events.NewSessionEvent(events.EventSessionStarted, s.ID, events.SessionStartedEvent{
		SessionID:       s.ID,
		AssessmentID:    s.AssessmentID,
		InterviewID:     s.InterviewID,
		CandidateEmail:  s.Candidate.Email,
		QuestionCount:   len(s.Questions),
		UnresolvedIDs:   s.Unresolved,
		DurationSeconds: s.DurationSeconds,
		StartedAt:       time.Now().UTC(),
	}))
}

func (l *sessionListener) TabSwitched(ctx context.Context, s session.State, e session.TabSwitched) {
	record := &models.IntegrityEvent{
		SessionID:     s.ID,
		AssessmentID:  s.AssessmentID,
		InterviewID:   s.InterviewID,
		Type:          models.EventTabHidden,
		QuestionIndex: e.QuestionIndex,
		TimeOffset:    e.TimeOffset,
	}
	if meta, ok := clientMetaFrom(ctx); ok {
		record.UserAgent = meta.UserAgent
		record.IPAddress = meta.IPAddress
	}
	if err := l.repo.IntegrityEvents().Create(ctx, nil, record); err != nil {
		l.logger.ErrorContext(ctx, "Failed to store integrity event",
			"session_id", s.ID,
			"error", err)
	}

	l.publish(ctx, events.NewSessionEvent(events.EventSessionTabSwitched, s.ID, events.TabSwitchedEvent{
		SessionID:     s.ID,
		AssessmentID:  s.AssessmentID,
		InterviewID:   s.InterviewID,
		Count:         e.Count,
		QuestionIndex: e.QuestionIndex,
		TimeOffset:    e.TimeOffset,
	}))
}

func (l *sessionListener) SessionSubmitted(ctx context.Context, s session.State) {
	if s.Submission == nil {
		return
	}
	l.publish(ctx, events.NewSessionEvent(events.EventSessionSubmitted, s.ID, events.SessionSubmittedEvent{
		SessionID:      s.ID,
		ResponseID:     s.Submission.ID,
		AssessmentID:   s.AssessmentID,
		InterviewID:    s.InterviewID,
		CandidateEmail: s.Candidate.Email,
		Score:          s.Submission.Score,
		TotalScore:     s.Submission.TotalScore,
		TabSwitchCount: s.Submission.TabSwitchCount,
		TimedOut:       s.TimeRemaining <= 0,
		SubmittedAt:    s.Submission.CreatedAt,
	}))
}

func (l *sessionListener) publish(ctx context.Context, event *events.SessionEvent) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishSessionEvent(ctx, event); err != nil {
		l.logger.ErrorContext(ctx, "Failed to publish session event",
			"event_type", event.Type,
			"error", err)
	}
}

// ClientMeta describes the client that triggered a session event
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type clientMetaKey struct{}

// WithClientMeta attaches request metadata recorded on integrity events
func WithClientMeta(ctx context.Context, meta ClientMeta) context.Context {
	return context.WithValue(ctx, clientMetaKey{}, meta)
}

func clientMetaFrom(ctx context.Context) (ClientMeta, bool) {
	meta, ok := ctx.Value(clientMetaKey{}).(ClientMeta)
	return meta, ok
}
