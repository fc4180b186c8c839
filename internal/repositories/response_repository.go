package repositories

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"gorm.io/gorm"
)

// ResponseRepository stores submissions. Records are created once and never
// updated.
type ResponseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, response *models.AssessmentResponse) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentResponse, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string) (*models.AssessmentResponse, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters ResponseFilters) ([]*models.AssessmentResponse, int64, error)
	GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uint) ([]*models.AssessmentResponse, error)

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB, assessmentID uint) (*ResponseStats, error)
}
