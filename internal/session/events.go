package session

import (
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/runner"
)

// Event is an input to the state machine.
type Event interface {
	event()
}

// Loaded carries the fetched assessment and its resolved questions.
type Loaded struct {
	Assessment models.Assessment
	Questions  []models.CodingQuestion
	Unresolved []uint
	Language   string
}

// LoadFailed moves a loading session to the unavailable state.
type LoadFailed struct {
	Reason string
}

type CandidateSubmitted struct {
	Name  string
	Email string
}

type LanguageChanged struct {
	Language string
}

type CodeEdited struct {
	Code string
}

// Navigated moves the cursor by Delta questions.
type Navigated struct {
	Delta int
}

// RunRequested runs the current code against all test cases of the current
// question, or only the one at TestIndex. TestIndex counts visible cases
// only, matching the order the candidate sees them in.
type RunRequested struct {
	TestIndex *int
}

// RunFinished reports the outcome of a RunTests effect.
type RunFinished struct {
	RunID         int
	QuestionIndex int
	Outcome       *runner.Outcome
	Err           error
}

type Ticked struct{}

type SubmitRequested struct{}

type SubmissionSaved struct {
	Record *models.AssessmentResponse
}

type SubmissionErrored struct {
	Err error
}

type RetryRequested struct{}

type VisibilityChanged struct {
	Hidden bool
}

func (Loaded) event()             {}
func (LoadFailed) event()         {}
func (CandidateSubmitted) event() {}
func (LanguageChanged) event()    {}
func (CodeEdited) event()         {}
func (Navigated) event()          {}
func (RunRequested) event()       {}
func (RunFinished) event()        {}
func (Ticked) event()             {}
func (SubmitRequested) event()    {}
func (SubmissionSaved) event()    {}
func (SubmissionErrored) event()  {}
func (RetryRequested) event()     {}
func (VisibilityChanged) event()  {}

// Effect is a side effect requested by the state machine.
type Effect interface {
	effect()
}

// RunTests asks for Code to be executed against TestCases.
type RunTests struct {
	RunID         int
	QuestionIndex int
	Code          string
	LanguageID    int
	TestCases     []models.TestCase
}

// Persist asks for the submission record to be created.
type Persist struct {
	Record *models.AssessmentResponse
}

// Started is emitted once when the session enters InProgress.
type Started struct{}

// TabSwitched is emitted for every transition to hidden.
type TabSwitched struct {
	Count         int
	QuestionIndex int
	TimeOffset    int
}

func (RunTests) effect()    {}
func (Persist) effect()     {}
func (Started) effect()     {}
func (TabSwitched) effect() {}
