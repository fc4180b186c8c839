package postgres

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"gorm.io/gorm"
)

var assessmentSortColumns = map[string]bool{
	"created_at": true,
	"name":       true,
	"difficulty": true,
}

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

// Create creates a new assessment; the declared question count follows the
// question list.
func (a *AssessmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	db := getDB(a.db, tx)
	assessment.SyncQuestionCount()
	return db.WithContext(ctx).Create(assessment).Error
}

// GetByID retrieves an assessment by ID
func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error) {
	db := getDB(a.db, tx)
	var assessment models.Assessment
	if err := db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Update updates an assessment
func (a *AssessmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	db := getDB(a.db, tx)
	assessment.SyncQuestionCount()
	return db.WithContext(ctx).Save(assessment).Error
}

// Delete soft deletes an assessment. Stored responses are kept.
func (a *AssessmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(a.db, tx)
	result := db.WithContext(ctx).Delete(&models.Assessment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves assessments with filters and pagination
func (a *AssessmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	db := getDB(a.db, tx)
	query := db.WithContext(ctx).Model(&models.Assessment{})

	// Apply filters
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filters.OrganizationID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	// Count total
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination and ordering
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, assessmentSortColumns, filters.Limit, filters.Offset)

	var assessments []*models.Assessment
	if err := query.Find(&assessments).Error; err != nil {
		return nil, 0, err
	}

	return assessments, total, nil
}

// ExistsByName checks name uniqueness per owner
func (a *AssessmentPostgreSQL) ExistsByName(ctx context.Context, tx *gorm.DB, name string, userID string, excludeID *uint) (bool, error) {
	db := getDB(a.db, tx)
	query := db.WithContext(ctx).Model(&models.Assessment{}).
		Where("name = ? AND user_id = ?", name, userID)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountReferencing counts live assessments whose question list contains
// questionID. The list is a JSON column, so matching happens in Go to stay
// portable across drivers.
func (a *AssessmentPostgreSQL) CountReferencing(ctx context.Context, tx *gorm.DB, questionID uint) (int, error) {
	db := getDB(a.db, tx)
	var assessments []models.Assessment
	if err := db.WithContext(ctx).Select("id", "questions").Find(&assessments).Error; err != nil {
		return 0, err
	}

	count := 0
	for _, assessment := range assessments {
		for _, id := range assessment.Questions {
			if id == questionID {
				count++
				break
			}
		}
	}
	return count, nil
}
