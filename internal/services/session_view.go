package services

import (
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/session"
)

// SessionView is what the candidate sees. Hidden test cases are never
// included.
type SessionView struct {
	ID                string        `json:"id"`
	Phase             session.Phase `json:"phase"`
	UnavailableReason string        `json:"unavailable_reason,omitempty"`
	AssessmentID      uint          `json:"assessment_id"`
	InterviewID       string        `json:"interview_id,omitempty"`
	CandidateName     string        `json:"candidate_name,omitempty"`
	CandidateEmail    string        `json:"candidate_email,omitempty"`

	QuestionCount   int                    `json:"question_count"`
	CurrentIndex    int                    `json:"current_index"`
	CurrentQuestion *QuestionView          `json:"current_question,omitempty"`
	Code            string                 `json:"code"`
	Language        string                 `json:"language"`
	Result          *models.QuestionResult `json:"result,omitempty"`
	Progress        []QuestionProgress     `json:"progress"`
	Unresolved      []uint                 `json:"unresolved_question_ids,omitempty"`

	DurationSeconds int    `json:"duration_seconds"`
	TimeRemaining   int    `json:"time_remaining"`
	TimeDisplay     string `json:"time_display"`
	TabSwitchCount  int    `json:"tab_switch_count"`

	SubmissionStatus session.SubmissionStatus `json:"submission_status,omitempty"`
	SubmissionError  string                   `json:"submission_error,omitempty"`
	ResponseID       *uint                    `json:"response_id,omitempty"`
	Score            *int                     `json:"score,omitempty"`
}

// QuestionView is a question without its hidden test cases
type QuestionView struct {
	ID                 uint              `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	InputFormat        string            `json:"input_format"`
	OutputFormat       string            `json:"output_format"`
	ExampleExplanation string            `json:"example_explanation"`
	Difficulty         models.Difficulty `json:"difficulty"`
	TestCases          []models.TestCase `json:"test_cases"`
	TotalTestCases     int               `json:"total_test_cases"`
}

type QuestionProgress struct {
	QuestionID      uint   `json:"question_id"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	PassedTestCases int    `json:"passed_test_cases"`
	TotalTestCases  int    `json:"total_test_cases"`
}

func newSessionView(s session.State) *SessionView {
	view := &SessionView{
		ID:                s.ID,
		Phase:             s.Phase,
		UnavailableReason: s.UnavailableReason,
		AssessmentID:      s.AssessmentID,
		InterviewID:       s.InterviewID,
		CandidateName:     s.Candidate.Name,
		CandidateEmail:    s.Candidate.Email,
		QuestionCount:     len(s.Questions),
		CurrentIndex:      s.CurrentIndex,
		Code:              s.CurrentCode,
		Language:          s.CurrentLanguage,
		Unresolved:        s.Unresolved,
		DurationSeconds:   s.DurationSeconds,
		TimeRemaining:     s.TimeRemaining,
		TimeDisplay:       session.FormatTime(s.TimeRemaining),
		TabSwitchCount:    s.TabSwitchCount,
		SubmissionStatus:  s.SubmissionStatus,
		SubmissionError:   s.SubmissionError,
		Progress:          make([]QuestionProgress, 0, len(s.Questions)),
	}

	if q := s.CurrentQuestion(); q != nil {
		view.CurrentQuestion = &QuestionView{
			ID:                 q.ID,
			Title:              q.Title,
			Description:        q.Description,
			InputFormat:        q.InputFormat,
			OutputFormat:       q.OutputFormat,
			ExampleExplanation: q.ExampleExplanation,
			Difficulty:         q.Difficulty,
			TestCases:          s.VisibleTestCases(),
			TotalTestCases:     len(q.TestCases),
		}
	}
	if r := s.CurrentResult(); r != nil {
		result := *r
		view.Result = &result
	}

	for i, q := range s.Questions {
		p := QuestionProgress{QuestionID: q.ID, Title: q.Title, TotalTestCases: len(q.TestCases)}
		if i < len(s.Responses) {
			p.Status = s.Responses[i].Result.Status
			p.PassedTestCases = s.Responses[i].Result.PassedTestCases
		}
		view.Progress = append(view.Progress, p)
	}

	if s.Submission != nil && s.SubmissionStatus == session.StatusSaved {
		id, score := s.Submission.ID, s.Submission.Score
		view.ResponseID = &id
		view.Score = &score
	}
	return view
}
