// Package session administers one candidate's timed coding assessment.
//
// The session is a pure state machine: Apply takes a State and an Event and
// returns the next State together with the side effects to perform. The
// Controller owns a State, serializes events and performs effects (test runs,
// persistence, notifications) outside the critical section.
package session

import (
	"fmt"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
)

type Phase string

const (
	PhaseLoading           Phase = "loading"
	PhaseUnavailable       Phase = "unavailable"
	PhaseAwaitingCandidate Phase = "awaiting_candidate"
	PhaseInProgress        Phase = "in_progress"
	PhaseCompleted         Phase = "completed"
)

type SubmissionStatus string

const (
	StatusNone    SubmissionStatus = ""
	StatusPending SubmissionStatus = "pending"
	StatusSaved   SubmissionStatus = "saved"
	StatusFailed  SubmissionStatus = "failed"
)

type Candidate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Complete reports whether both name and email are present.
func (c Candidate) Complete() bool {
	return c.Name != "" && c.Email != ""
}

// State is a snapshot of one session. Values are treated as immutable; Apply
// always returns a copy.
type State struct {
	ID                string
	Phase             Phase
	UnavailableReason string

	AssessmentID    uint
	InterviewID     string
	DurationSeconds int
	Candidate       Candidate

	Questions  []models.CodingQuestion
	Unresolved []uint
	Responses  []models.QuestionResponse

	CurrentIndex    int
	CurrentCode     string
	CurrentLanguage string

	TimeRemaining  int
	TabSwitchCount int
	Hidden         bool

	Submission       *models.AssessmentResponse
	SubmissionStatus SubmissionStatus
	SubmissionError  string

	runSeq    int
	latestRun []int
}

// NewState returns a session waiting for its assessment to load.
func NewState(id, interviewID string, assessmentID uint, candidate Candidate) State {
	return State{
		ID:           id,
		Phase:        PhaseLoading,
		AssessmentID: assessmentID,
		InterviewID:  interviewID,
		Candidate:    candidate,
	}
}

func (s State) clone() State {
	out := s
	out.Responses = append([]models.QuestionResponse(nil), s.Responses...)
	out.latestRun = append([]int(nil), s.latestRun...)
	return out
}

// CurrentQuestion returns the question under the cursor, or nil before load.
func (s State) CurrentQuestion() *models.CodingQuestion {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	q := s.Questions[s.CurrentIndex]
	return &q
}

// CurrentResult returns the latest test result for the current question.
func (s State) CurrentResult() *models.QuestionResult {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Responses) {
		return nil
	}
	r := s.Responses[s.CurrentIndex].Result
	return &r
}

// VisibleTestCases returns the non-hidden test cases of the current question.
func (s State) VisibleTestCases() []models.TestCase {
	q := s.CurrentQuestion()
	if q == nil {
		return nil
	}
	return q.VisibleTestCases()
}

func (s State) IsCompleted() bool {
	return s.Phase == PhaseCompleted
}

// Elapsed is the number of seconds the candidate has used so far.
func (s State) Elapsed() int {
	return s.DurationSeconds - s.TimeRemaining
}

// FormatTime renders seconds as HH:MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
