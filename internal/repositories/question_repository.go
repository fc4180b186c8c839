package repositories

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"gorm.io/gorm"
)

// CodingQuestionRepository interface for coding question operations
type CodingQuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, question *models.CodingQuestion) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CodingQuestion, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.CodingQuestion) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error // Soft delete

	// Bulk operations
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.CodingQuestion, error)

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters QuestionFilters) ([]*models.CodingQuestion, int64, error)
}
