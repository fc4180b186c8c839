package postgres

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"gorm.io/gorm"
)

type IntegrityEventPostgreSQL struct {
	db *gorm.DB
}

func NewIntegrityEventPostgreSQL(db *gorm.DB) repositories.IntegrityEventRepository {
	return &IntegrityEventPostgreSQL{db: db}
}

func (i *IntegrityEventPostgreSQL) Create(ctx context.Context, tx *gorm.DB, event *models.IntegrityEvent) error {
	db := getDB(i.db, tx)
	return db.WithContext(ctx).Create(event).Error
}

func (i *IntegrityEventPostgreSQL) GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]*models.IntegrityEvent, error) {
	db := getDB(i.db, tx)
	var events []*models.IntegrityEvent
	if err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (i *IntegrityEventPostgreSQL) CountBySession(ctx context.Context, tx *gorm.DB, sessionID string, eventType models.IntegrityEventType) (int64, error) {
	db := getDB(i.db, tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.IntegrityEvent{}).
		Where("session_id = ? AND type = ?", sessionID, eventType).
		Count(&count).Error
	return count, err
}
