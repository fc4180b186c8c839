package repositories

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"gorm.io/gorm"
)

// AssessmentRepository interface for assessment-specific operations
type AssessmentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error)
	Update(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error // Soft delete

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters AssessmentFilters) ([]*models.Assessment, int64, error)

	// Validation helpers
	ExistsByName(ctx context.Context, tx *gorm.DB, name string, userID string, excludeID *uint) (bool, error)
	CountReferencing(ctx context.Context, tx *gorm.DB, questionID uint) (int, error)
}
