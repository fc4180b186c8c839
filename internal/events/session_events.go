package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the session milestones published to the event bus
type EventType string

const (
	EventSessionStarted     EventType = "session.started"
	EventSessionSubmitted   EventType = "session.submitted"
	EventSessionTabSwitched EventType = "session.tab_switched"
)

const (
	eventSource  = "coding-assessment"
	eventVersion = "1.0"
)

// SessionEvent is the envelope for every published event
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewSessionEvent wraps data in an envelope with a fresh id
func NewSessionEvent(eventType EventType, sessionID string, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
		Metadata:  map[string]interface{}{"session_id": sessionID},
	}
}

// Session event payloads

type SessionStartedEvent struct {
	SessionID       string    `json:"session_id"`
	AssessmentID    uint      `json:"assessment_id"`
	InterviewID     string    `json:"interview_id"`
	CandidateEmail  string    `json:"candidate_email"`
	QuestionCount   int       `json:"question_count"`
	UnresolvedIDs   []uint    `json:"unresolved_question_ids,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	StartedAt       time.Time `json:"started_at"`
}

type SessionSubmittedEvent struct {
	SessionID      string    `json:"session_id"`
	ResponseID     uint      `json:"response_id"`
	AssessmentID   uint      `json:"assessment_id"`
	InterviewID    string    `json:"interview_id"`
	CandidateEmail string    `json:"candidate_email"`
	Score          int       `json:"score"`
	TotalScore     int       `json:"total_score"`
	TabSwitchCount int       `json:"tab_switch_count"`
	TimedOut       bool      `json:"timed_out"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type TabSwitchedEvent struct {
	SessionID     string `json:"session_id"`
	AssessmentID  uint   `json:"assessment_id"`
	InterviewID   string `json:"interview_id"`
	Count         int    `json:"count"`
	QuestionIndex int    `json:"question_index"`
	TimeOffset    int    `json:"time_offset"`
}
