package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/coding-assessment/internal/cache"
	apperrors "github.com/SAP-F-2025/coding-assessment/internal/errors"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
)

const (
	questionCacheTTL   = 10 * time.Minute
	maxParallelLookups = 8
)

// PartialAssessment is an assessment with whichever of its questions could be
// resolved. Questions keep the assessment's order.
type PartialAssessment struct {
	Assessment *models.Assessment
	Questions  []models.CodingQuestion
	Unresolved []uint
}

// AssessmentLoader fetches an assessment and its questions.
type AssessmentLoader struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

// NewAssessmentLoader creates a loader. cacheService may be nil.
func NewAssessmentLoader(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) *AssessmentLoader {
	return &AssessmentLoader{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

// Load returns ErrAssessmentNotFound when the assessment itself is missing.
// Questions that fail to resolve for any reason are reported in Unresolved
// instead of failing the load.
func (l *AssessmentLoader) Load(ctx context.Context, assessmentID uint) (*PartialAssessment, error) {
	assessment, err := l.repo.Assessments().GetByID(ctx, nil, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	if !assessment.IsActive {
		return nil, ErrAssessmentInactive
	}
	if assessment.QuestionCount != len(assessment.Questions) {
		l.logger.WarnContext(ctx, "Assessment question count does not match its question list",
			"assessment_id", assessment.ID,
			"question_count", assessment.QuestionCount,
			"questions", len(assessment.Questions))
	}

	ids := []uint(assessment.Questions)
	resolved := make([]*models.CodingQuestion, len(ids))

	var g errgroup.Group
	g.SetLimit(maxParallelLookups)
	for i, id := range ids {
		g.Go(func() error {
			q, err := l.question(ctx, id)
			if err != nil {
				l.logger.WarnContext(ctx, "Question could not be resolved",
					"assessment_id", assessment.ID,
					"question_id", id,
					"error", err)
				return nil
			}
			resolved[i] = q
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	partial := &PartialAssessment{Assessment: assessment}
	for i, q := range resolved {
		if q == nil {
			partial.Unresolved = append(partial.Unresolved, ids[i])
			continue
		}
		partial.Questions = append(partial.Questions, *q)
	}
	return partial, nil
}

// question reads through the cache. Every failure is a ResolutionError.
func (l *AssessmentLoader) question(ctx context.Context, id uint) (*models.CodingQuestion, error) {
	key := cache.QuestionKey(id)
	if l.cache != nil {
		var cached models.CodingQuestion
		if err := l.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	q, err := l.repo.Questions().GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = ErrQuestionNotFound
		}
		return nil, &apperrors.ResolutionError{QuestionID: id, Err: err}
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, q, questionCacheTTL); err != nil {
			l.logger.WarnContext(ctx, "Failed to cache question", "question_id", id, "error", err)
		}
	}
	return q, nil
}
