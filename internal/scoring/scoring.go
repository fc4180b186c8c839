// Package scoring reduces a finished session to the persisted submission
// record. Everything here is pure.
package scoring

import (
	"math"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
)

// Percentage returns round(passed/total*100), or 0 when total is 0.
func Percentage(passed, total int) int {
	if total <= 0 {
		return 0
	}
	score := int(math.Round(float64(passed) / float64(total) * 100))
	if score < 0 {
		return 0
	}
	if score > models.TotalScore {
		return models.TotalScore
	}
	return score
}

// Input is the part of a session the builder reads.
type Input struct {
	AssessmentID uint
	InterviewID  string
	SessionID    string
	Name         string
	Email        string

	Questions []models.CodingQuestion
	Responses []models.QuestionResponse

	// The open editor. Its content may be newer than Responses.
	CurrentIndex    int
	CurrentCode     string
	CurrentLanguage string

	TabSwitchCount int
}

// Build returns the submission record for in. The score is the pass rate over
// the union of all test cases, so questions with more cases weigh more.
// Responses in the input are not modified.
func Build(in Input) *models.AssessmentResponse {
	responses := make([]models.QuestionResponse, len(in.Responses))
	copy(responses, in.Responses)

	if in.CurrentIndex >= 0 && in.CurrentIndex < len(responses) {
		responses[in.CurrentIndex].Code = in.CurrentCode
		responses[in.CurrentIndex].Language = in.CurrentLanguage
	}

	titles := make(map[uint]string, len(in.Questions))
	for _, q := range in.Questions {
		titles[q.ID] = q.Title
	}

	var passed, total int
	for i := range responses {
		passed += responses[i].Result.PassedTestCases
		total += responses[i].Result.TotalTestCases
		if title, ok := titles[responses[i].QuestionID]; ok {
			responses[i].QuestionTitle = title
		}
	}

	return &models.AssessmentResponse{
		AssessmentID:   in.AssessmentID,
		InterviewID:    in.InterviewID,
		SessionID:      in.SessionID,
		Name:           optional(in.Name),
		Email:          optional(in.Email),
		Responses:      responses,
		Score:          Percentage(passed, total),
		TotalScore:     models.TotalScore,
		IsCompleted:    true,
		TabSwitchCount: in.TabSwitchCount,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
