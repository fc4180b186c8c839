package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TestCase is one stdin/expected-output pair. Hidden cases are not shown to the
// candidate but still execute when tests run.
type TestCase struct {
	Input    string `json:"input"`
	Output   string `json:"output"`
	IsHidden bool   `json:"is_hidden"`
}

type CodingQuestion struct {
	ID                 uint                          `json:"id" gorm:"primaryKey"`
	Title              string                        `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description        string                        `json:"description" gorm:"type:text" validate:"required"`
	InputFormat        string                        `json:"input_format" gorm:"type:text"`
	OutputFormat       string                        `json:"output_format" gorm:"type:text"`
	ExampleExplanation string                        `json:"example_explanation" gorm:"type:text"`
	Difficulty         Difficulty                    `json:"difficulty" gorm:"not null;size:10;index" validate:"required,difficulty_level"`
	TestCases          datatypes.JSONSlice[TestCase] `json:"test_cases" validate:"required,min=1"`
	IsActive           bool                          `json:"is_active" gorm:"default:true"`

	// Ownership
	UserID         string  `json:"user_id" gorm:"size:255;index"`
	OrganizationID *string `json:"organization_id" gorm:"size:255;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (CodingQuestion) TableName() string {
	return "coding_questions"
}

// VisibleTestCases returns the cases the candidate may see in the test panel.
func (q *CodingQuestion) VisibleTestCases() []TestCase {
	visible := make([]TestCase, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		if !tc.IsHidden {
			visible = append(visible, tc)
		}
	}
	return visible
}
