package models

import (
	"time"
)

type IntegrityEventType string

const (
	EventTabHidden  IntegrityEventType = "tab_hidden"
	EventTabVisible IntegrityEventType = "tab_visible"
)

// IntegrityEvent records a visibility transition during a session. It is
// informational for reviewers; nothing acts on it automatically.
type IntegrityEvent struct {
	ID           uint               `json:"id" gorm:"primaryKey"`
	SessionID    string             `json:"session_id" gorm:"not null;size:36;index"`
	AssessmentID uint               `json:"assessment_id" gorm:"not null;index"`
	InterviewID  string             `json:"interview_id" gorm:"size:255;index"`
	Type         IntegrityEventType `json:"type" gorm:"not null;size:20"`

	// Context
	QuestionIndex int    `json:"question_index"`
	TimeOffset    int    `json:"time_offset"` // Seconds from session start
	UserAgent     string `json:"user_agent" gorm:"type:text"`
	IPAddress     string `json:"ip_address" gorm:"size:45"`

	CreatedAt time.Time `json:"created_at"`
}

func (IntegrityEvent) TableName() string {
	return "integrity_events"
}
