package repositories

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"gorm.io/gorm"
)

// IntegrityEventRepository stores visibility transitions for reviewers.
type IntegrityEventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.IntegrityEvent) error
	GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]*models.IntegrityEvent, error)
	CountBySession(ctx context.Context, tx *gorm.DB, sessionID string, eventType models.IntegrityEventType) (int64, error)
}
