package postgres

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"gorm.io/gorm"
)

var questionSortColumns = map[string]bool{
	"created_at": true,
	"title":      true,
	"difficulty": true,
}

type CodingQuestionPostgreSQL struct {
	db *gorm.DB
}

func NewCodingQuestionPostgreSQL(db *gorm.DB) repositories.CodingQuestionRepository {
	return &CodingQuestionPostgreSQL{db: db}
}

func (q *CodingQuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.CodingQuestion) error {
	db := getDB(q.db, tx)
	return db.WithContext(ctx).Create(question).Error
}

func (q *CodingQuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CodingQuestion, error) {
	db := getDB(q.db, tx)
	var question models.CodingQuestion
	if err := db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *CodingQuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.CodingQuestion) error {
	db := getDB(q.db, tx)
	return db.WithContext(ctx).Save(question).Error
}

// Delete soft deletes a question. Assessments referencing it keep the id.
func (q *CodingQuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(q.db, tx)
	result := db.WithContext(ctx).Delete(&models.CodingQuestion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByIDs returns the questions that exist, in no particular order.
func (q *CodingQuestionPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.CodingQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := getDB(q.db, tx)
	var questions []*models.CodingQuestion
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *CodingQuestionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.CodingQuestion, int64, error) {
	db := getDB(q.db, tx)
	query := db.WithContext(ctx).Model(&models.CodingQuestion{})

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
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	// Count total
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, questionSortColumns, filters.Limit, filters.Offset)

	var questions []*models.CodingQuestion
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}
