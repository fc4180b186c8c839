package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultDurationMinutes applies when an assessment's duration is not a number.
const DefaultDurationMinutes = 60

// Assessment is an ordered bundle of coding question ids plus test parameters.
type Assessment struct {
	ID            uint                      `json:"id" gorm:"primaryKey"`
	Name          string                    `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description   *string                   `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Difficulty    Difficulty                `json:"difficulty" gorm:"not null;size:10" validate:"required,difficulty_level"`
	QuestionCount int                       `json:"question_count" gorm:"not null;default:0"`
	TimeDuration  string                    `json:"time_duration" gorm:"size:20" validate:"required"` // minutes
	Questions     datatypes.JSONSlice[uint] `json:"questions" validate:"required,min=1"`
	IsActive      bool                      `json:"is_active" gorm:"default:true"`

	// Ownership
	UserID         string  `json:"user_id" gorm:"size:255;index"`
	OrganizationID *string `json:"organization_id" gorm:"size:255;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// DurationMinutes parses TimeDuration, falling back to DefaultDurationMinutes.
func (a *Assessment) DurationMinutes() int {
	minutes, err := strconv.Atoi(strings.TrimSpace(a.TimeDuration))
	if err != nil {
		return DefaultDurationMinutes
	}
	return minutes
}

// SyncQuestionCount keeps the declared count equal to the question list length.
func (a *Assessment) SyncQuestionCount() {
	a.QuestionCount = len(a.Questions)
}
