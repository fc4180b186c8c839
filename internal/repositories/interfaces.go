package repositories

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"gorm.io/gorm"
)

// Repository groups the stores the service needs. Every method takes an
// optional transaction; nil means the default connection.
type Repository interface {
	Questions() CodingQuestionRepository
	Assessments() AssessmentRepository
	Responses() ResponseRepository
	IntegrityEvents() IntegrityEventRepository

	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Difficulty     *models.Difficulty `json:"difficulty"`
	UserID         string             `json:"user_id"`
	OrganizationID *string            `json:"organization_id"`
	IsActive       *bool              `json:"is_active"`
	Search         string             `json:"search"`
	Limit          int                `json:"limit"`
	Offset         int                `json:"offset"`
	SortBy         string             `json:"sort_by"`    // "created_at", "title", "difficulty"
	SortOrder      string             `json:"sort_order"` // "asc", "desc"
}

type AssessmentFilters struct {
	Difficulty     *models.Difficulty `json:"difficulty"`
	UserID         string             `json:"user_id"`
	OrganizationID *string            `json:"organization_id"`
	IsActive       *bool              `json:"is_active"`
	Limit          int                `json:"limit"`
	Offset         int                `json:"offset"`
	SortBy         string             `json:"sort_by"`    // "created_at", "name"
	SortOrder      string             `json:"sort_order"` // "asc", "desc"
}

type ResponseFilters struct {
	AssessmentID *uint  `json:"assessment_id"`
	InterviewID  string `json:"interview_id"`
	Email        string `json:"email"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
	SortBy       string `json:"sort_by"`    // "created_at", "score"
	SortOrder    string `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

type ResponseStats struct {
	TotalResponses     int     `json:"total_responses"`
	CompletedResponses int     `json:"completed_responses"`
	AverageScore       float64 `json:"average_score"`
	HighestScore       int     `json:"highest_score"`
	LowestScore        int     `json:"lowest_score"`
	AverageTabSwitches float64 `json:"average_tab_switches"`
}
