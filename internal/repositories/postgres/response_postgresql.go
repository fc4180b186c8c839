package postgres

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"gorm.io/gorm"
)

var responseSortColumns = map[string]bool{
	"created_at": true,
	"score":      true,
}

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

// Create inserts the submission. The unique session id makes a second insert
// for the same session fail.
func (r *ResponsePostgreSQL) Create(ctx context.Context, tx *gorm.DB, response *models.AssessmentResponse) error {
	db := getDB(r.db, tx)
	return db.WithContext(ctx).Create(response).Error
}

func (r *ResponsePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentResponse, error) {
	db := getDB(r.db, tx)
	var response models.AssessmentResponse
	if err := db.WithContext(ctx).First(&response, id).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *ResponsePostgreSQL) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string) (*models.AssessmentResponse, error) {
	db := getDB(r.db, tx)
	var response models.AssessmentResponse
	if err := db.WithContext(ctx).Where("session_id = ?", sessionID).First(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *ResponsePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ResponseFilters) ([]*models.AssessmentResponse, int64, error) {
	db := getDB(r.db, tx)

	// apply filter first
	query := db.WithContext(ctx).Model(&models.AssessmentResponse{})
	if filters.AssessmentID != nil {
		query = query.Where("assessment_id = ?", *filters.AssessmentID)
	}
	if filters.InterviewID != "" {
		query = query.Where("interview_id = ?", filters.InterviewID)
	}
	if filters.Email != "" {
		query = query.Where("email = ?", filters.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, responseSortColumns, filters.Limit, filters.Offset)

	var responses []*models.AssessmentResponse
	if err := query.Find(&responses).Error; err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

func (r *ResponsePostgreSQL) GetByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uint) ([]*models.AssessmentResponse, error) {
	db := getDB(r.db, tx)
	var responses []*models.AssessmentResponse
	if err := db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("created_at ASC").Order("id ASC").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *ResponsePostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, assessmentID uint) (*repositories.ResponseStats, error) {
	db := getDB(r.db, tx)

	var row struct {
		Total          int64
		Completed      int64
		AvgScore       float64
		MaxScore       int
		MinScore       int
		AvgTabSwitches float64
	}
	err := db.WithContext(ctx).Model(&models.AssessmentResponse{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(AVG(score), 0) AS avg_score,
			COALESCE(MAX(score), 0) AS max_score,
			COALESCE(MIN(score), 0) AS min_score,
			COALESCE(AVG(tab_switch_count), 0) AS avg_tab_switches`).
		Where("assessment_id = ?", assessmentID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &repositories.ResponseStats{
		TotalResponses:     int(row.Total),
		CompletedResponses: int(row.Completed),
		AverageScore:       row.AvgScore,
		HighestScore:       row.MaxScore,
		LowestScore:        row.MinScore,
		AverageTabSwitches: row.AvgTabSwitches,
	}, nil
}
