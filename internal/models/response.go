package models

import (
	"time"

	"gorm.io/datatypes"
)

// TotalScore is fixed: scores are percentages.
const TotalScore = 100

// QuestionResult is the outcome of the most recent test run for one question.
type QuestionResult struct {
	Status          string  `json:"status"`
	Stdout          *string `json:"stdout"`
	Stderr          *string `json:"stderr"`
	CompileOutput   *string `json:"compile_output"`
	Time            *string `json:"time"`
	Memory          *string `json:"memory"`
	PassedTestCases int     `json:"passed_test_cases"`
	TotalTestCases  int     `json:"total_test_cases"`
	Score           int     `json:"score"`
}

type QuestionResponse struct {
	QuestionID    uint           `json:"question_id"`
	QuestionTitle string         `json:"question_title,omitempty"`
	Code          string         `json:"code"`
	Language      string         `json:"language"`
	Result        QuestionResult `json:"result"`
}

// AssessmentResponse is the persisted submission of one session. It is created
// once and never updated.
type AssessmentResponse struct {
	ID             uint                                  `json:"id" gorm:"primaryKey"`
	AssessmentID   uint                                  `json:"assessment_id" gorm:"not null;index"`
	InterviewID    string                                `json:"interview_id" gorm:"size:255;index"`
	SessionID      string                                `json:"session_id" gorm:"size:36;uniqueIndex"`
	Name           *string                               `json:"name" gorm:"size:200"`
	Email          *string                               `json:"email" gorm:"size:255;index"`
	Responses      datatypes.JSONSlice[QuestionResponse] `json:"responses"`
	Score          int                                   `json:"score"`
	TotalScore     int                                   `json:"total_score" gorm:"default:100"`
	IsCompleted    bool                                  `json:"is_completed" gorm:"default:false"`
	TabSwitchCount int                                   `json:"tab_switch_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (AssessmentResponse) TableName() string {
	return "assessment_responses"
}
