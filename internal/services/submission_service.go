package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/coding-assessment/internal/cache"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
)

const submissionGuardTTL = 24 * time.Hour

type submissionService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

// NewSubmissionService creates the submission store. cacheService may be nil,
// in which case the unique session id column is the only duplicate guard.
func NewSubmissionService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) SubmissionService {
	return &submissionService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

// CreateSubmission stores record once per session. A second call for a
// session that already has a record returns the stored one.
func (s *submissionService) CreateSubmission(ctx context.Context, record *models.AssessmentResponse) (*models.AssessmentResponse, error) {
	key := cache.SubmissionKey(record.SessionID)

	if s.cache != nil {
		acquired, err := s.cache.SetIfAbsent(ctx, key, "pending", submissionGuardTTL)
		if err != nil {
			s.logger.WarnContext(ctx, "Submission guard unavailable", "session_id", record.SessionID, "error", err)
		} else if !acquired {
			existing, err := s.repo.Responses().GetBySessionID(ctx, nil, record.SessionID)
			if err == nil {
				s.logger.InfoContext(ctx, "Submission already stored", "session_id", record.SessionID, "response_id", existing.ID)
				return existing, nil
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubmissionInProgress
			}
			return nil, fmt.Errorf("failed to check existing submission: %w", err)
		}
	}

	if err := s.repo.Responses().Create(ctx, nil, record); err != nil {
		if s.cache != nil {
			if delErr := s.cache.Delete(ctx, key); delErr != nil {
				s.logger.WarnContext(ctx, "Failed to release submission guard", "session_id", record.SessionID, "error", delErr)
			}
		}
		return nil, fmt.Errorf("failed to create response: %w", err)
	}

	s.logger.InfoContext(ctx, "Submission stored",
		"session_id", record.SessionID,
		"response_id", record.ID,
		"assessment_id", record.AssessmentID,
		"score", record.Score)
	return record, nil
}

// ===== REVIEWER READS =====

func (s *submissionService) GetResponse(ctx context.Context, id uint) (*models.AssessmentResponse, error) {
	response, err := s.repo.Responses().GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return response, nil
}

func (s *submissionService) ListResponses(ctx context.Context, filters repositories.ResponseFilters) ([]*models.AssessmentResponse, int64, error) {
	responses, total, err := s.repo.Responses().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, total, nil
}

func (s *submissionService) GetStats(ctx context.Context, assessmentID uint) (*repositories.ResponseStats, error) {
	if _, err := s.repo.Assessments().GetByID(ctx, nil, assessmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	stats, err := s.repo.Responses().GetStats(ctx, nil, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get response stats: %w", err)
	}
	return stats, nil
}

func (s *submissionService) GetIntegrityEvents(ctx context.Context, sessionID string) ([]*models.IntegrityEvent, error) {
	events, err := s.repo.IntegrityEvents().GetBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get integrity events: %w", err)
	}
	return events, nil
}
