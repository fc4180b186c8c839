package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/coding-assessment/internal/cache"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"github.com/SAP-F-2025/coding-assessment/internal/validator"
)

type authoringService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	validator *validator.Validator
	logger    *ServiceLogger
}

func NewAuthoringService(repo repositories.Repository, cacheService cache.CacheService, validator *validator.Validator, logger *slog.Logger) AuthoringService {
	return &authoringService{
		repo:      repo,
		cache:     cacheService,
		validator: validator,
		logger:    NewServiceLogger(logger, LogConfig{Service: "coding-assessment", Component: "authoring"}),
	}
}

// ===== QUESTIONS =====

func (s *authoringService) CreateQuestion(ctx context.Context, req *QuestionRequest, userID string) (question *models.CodingQuestion, err error) {
	op := s.logger.WithOperation(ctx, "create_question")
	defer func() { op.LogResult(questionID(question), "coding_question", err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	question = &models.CodingQuestion{
		UserID:   userID,
		IsActive: true,
	}
	applyQuestionRequest(question, req)
	if err = s.validator.Validate(question); err != nil {
		return nil, err
	}

	if err = s.repo.Questions().Create(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

func (s *authoringService) GetQuestion(ctx context.Context, id uint) (*models.CodingQuestion, error) {
	question, err := s.repo.Questions().GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *authoringService) UpdateQuestion(ctx context.Context, id uint, req *QuestionRequest) (question *models.CodingQuestion, err error) {
	op := s.logger.WithOperation(ctx, "update_question")
	defer func() { op.LogResult(id, "coding_question", err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	question, err = s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	applyQuestionRequest(question, req)
	if err = s.validator.Validate(question); err != nil {
		return nil, err
	}

	if err = s.repo.Questions().Update(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	s.invalidateQuestion(ctx, id)
	return question, nil
}

func (s *authoringService) DeleteQuestion(ctx context.Context, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "delete_question")
	defer func() { op.LogResult(id, "coding_question", err) }()

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		usedBy, err := s.repo.Assessments().CountReferencing(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to check question usage: %w", err)
		}
		if err := s.validator.Question().ValidateUsage(usedBy, "delete"); err != nil {
			return fmt.Errorf("%w: %v", ErrQuestionInUse, err)
		}
		if err := s.repo.Questions().Delete(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("failed to delete question: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateQuestion(ctx, id)
	return nil
}

func (s *authoringService) ListQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]*models.CodingQuestion, int64, error) {
	questions, total, err := s.repo.Questions().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

// ===== ASSESSMENTS =====

func (s *authoringService) CreateAssessment(ctx context.Context, req *AssessmentRequest, userID string) (assessment *models.Assessment, err error) {
	op := s.logger.WithOperation(ctx, "create_assessment")
	defer func() { op.LogResult(assessmentID(assessment), "assessment", err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	assessment = &models.Assessment{
		UserID:   userID,
		IsActive: true,
	}
	applyAssessmentRequest(assessment, req)
	if err = s.validator.Validate(assessment); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.checkAssessment(ctx, tx, assessment, nil); err != nil {
			return err
		}
		if err := s.repo.Assessments().Create(ctx, tx, assessment); err != nil {
			return fmt.Errorf("failed to create assessment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assessment, nil
}

func (s *authoringService) GetAssessment(ctx context.Context, id uint) (*models.Assessment, error) {
	assessment, err := s.repo.Assessments().GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

func (s *authoringService) UpdateAssessment(ctx context.Context, id uint, req *AssessmentRequest) (assessment *models.Assessment, err error) {
	op := s.logger.WithOperation(ctx, "update_assessment")
	defer func() { op.LogResult(id, "assessment", err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	assessment, err = s.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	applyAssessmentRequest(assessment, req)
	if err = s.validator.Validate(assessment); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.checkAssessment(ctx, tx, assessment, &id); err != nil {
			return err
		}
		if err := s.repo.Assessments().Update(ctx, tx, assessment); err != nil {
			return fmt.Errorf("failed to update assessment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assessment, nil
}

func (s *authoringService) DeleteAssessment(ctx context.Context, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "delete_assessment")
	defer func() { op.LogResult(id, "assessment", err) }()

	if err = s.repo.Assessments().Delete(ctx, nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	return nil
}

func (s *authoringService) ListAssessments(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	assessments, total, err := s.repo.Assessments().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, total, nil
}

// ===== HELPERS =====

// checkAssessment enforces per-owner name uniqueness and that every listed
// question exists.
func (s *authoringService) checkAssessment(ctx context.Context, tx *gorm.DB, assessment *models.Assessment, excludeID *uint) error {
	exists, err := s.repo.Assessments().ExistsByName(ctx, tx, assessment.Name, assessment.UserID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check assessment name: %w", err)
	}
	if exists {
		return ErrAssessmentDuplicateName
	}

	found, err := s.repo.Questions().GetByIDs(ctx, tx, assessment.Questions)
	if err != nil {
		return fmt.Errorf("failed to check questions: %w", err)
	}
	if len(found) != len(assessment.Questions) {
		known := make(map[uint]bool, len(found))
		for _, q := range found {
			known[q.ID] = true
		}
		var missing []uint
		for _, id := range assessment.Questions {
			if !known[id] {
				missing = append(missing, id)
			}
		}
		return ValidationErrors{*NewValidationError("questions", "unknown question ids", missing)}
	}
	return nil
}

func (s *authoringService) invalidateQuestion(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.QuestionKey(id)); err != nil {
		s.logger.Debug(ctx, "Failed to invalidate cached question", "question_id", id, "error", err)
	}
}

func applyQuestionRequest(q *models.CodingQuestion, req *QuestionRequest) {
	q.Title = req.Title
	q.Description = req.Description
	q.InputFormat = req.InputFormat
	q.OutputFormat = req.OutputFormat
	q.ExampleExplanation = req.ExampleExplanation
	q.Difficulty = req.Difficulty
	q.TestCases = datatypes.JSONSlice[models.TestCase](req.TestCases)
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
	if req.OrganizationID != nil {
		q.OrganizationID = req.OrganizationID
	}
}

func applyAssessmentRequest(a *models.Assessment, req *AssessmentRequest) {
	a.Name = req.Name
	a.Description = req.Description
	a.Difficulty = req.Difficulty
	a.TimeDuration = req.TimeDuration
	a.Questions = datatypes.JSONSlice[uint](req.Questions)
	a.SyncQuestionCount()
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if req.OrganizationID != nil {
		a.OrganizationID = req.OrganizationID
	}
}

func questionID(q *models.CodingQuestion) uint {
	if q == nil {
		return 0
	}
	return q.ID
}

func assessmentID(a *models.Assessment) uint {
	if a == nil {
		return 0
	}
	return a.ID
}
