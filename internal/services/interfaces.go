package services

import (
	"context"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
)

// SessionService drives live candidate sessions
type SessionService interface {
	Start(ctx context.Context, req *StartSessionRequest) (*SessionView, error)
	Get(ctx context.Context, sessionID string) (*SessionView, error)

	SubmitCandidate(ctx context.Context, sessionID string, req *CandidateRequest) (*SessionView, error)
	ChangeLanguage(ctx context.Context, sessionID string, language string) (*SessionView, error)
	EditCode(ctx context.Context, sessionID string, code string) (*SessionView, error)
	Navigate(ctx context.Context, sessionID string, delta int) (*SessionView, error)
	RunTests(ctx context.Context, sessionID string, testIndex *int) (*SessionView, error)
	Submit(ctx context.Context, sessionID string) (*SessionView, error)
	RetrySubmit(ctx context.Context, sessionID string) (*SessionView, error)
	SetVisibility(ctx context.Context, sessionID string, hidden bool) (*SessionView, error)

	// Sweep evicts finished and abandoned sessions and reports how many
	// were removed
	Sweep(ctx context.Context) int
	StartSweeper(spec string) error
	Shutdown()
}

// SubmissionService persists and reads submitted responses
type SubmissionService interface {
	CreateSubmission(ctx context.Context, record *models.AssessmentResponse) (*models.AssessmentResponse, error)
	GetResponse(ctx context.Context, id uint) (*models.AssessmentResponse, error)
	ListResponses(ctx context.Context, filters repositories.ResponseFilters) ([]*models.AssessmentResponse, int64, error)
	GetStats(ctx context.Context, assessmentID uint) (*repositories.ResponseStats, error)
	GetIntegrityEvents(ctx context.Context, sessionID string) ([]*models.IntegrityEvent, error)
}

// AuthoringService manages coding questions and assessments
type AuthoringService interface {
	CreateQuestion(ctx context.Context, req *QuestionRequest, userID string) (*models.CodingQuestion, error)
	GetQuestion(ctx context.Context, id uint) (*models.CodingQuestion, error)
	UpdateQuestion(ctx context.Context, id uint, req *QuestionRequest) (*models.CodingQuestion, error)
	DeleteQuestion(ctx context.Context, id uint) error
	ListQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]*models.CodingQuestion, int64, error)

	CreateAssessment(ctx context.Context, req *AssessmentRequest, userID string) (*models.Assessment, error)
	GetAssessment(ctx context.Context, id uint) (*models.Assessment, error)
	UpdateAssessment(ctx context.Context, id uint, req *AssessmentRequest) (*models.Assessment, error)
	DeleteAssessment(ctx context.Context, id uint) error
	ListAssessments(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error)
}

// ExportService renders reviewer spreadsheets
type ExportService interface {
	ExportAssessmentResponses(ctx context.Context, assessmentID uint) ([]byte, error)
}

// ===== REQUEST DTOS =====

type StartSessionRequest struct {
	AssessmentID uint   `json:"assessment_id"`
	InterviewID  string `json:"interview_id" validate:"max=255"`
	Name         string `json:"name" validate:"omitempty,max=200"`
	Email        string `json:"email" validate:"omitempty,email,max=255"`
}

type CandidateRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type QuestionRequest struct {
	Title              string            `json:"title" validate:"required,min=1,max=200"`
	Description        string            `json:"description" validate:"required"`
	InputFormat        string            `json:"input_format"`
	OutputFormat       string            `json:"output_format"`
	ExampleExplanation string            `json:"example_explanation"`
	Difficulty         models.Difficulty `json:"difficulty" validate:"required,difficulty_level"`
	TestCases          []models.TestCase `json:"test_cases" validate:"required,min=1"`
	IsActive           *bool             `json:"is_active"`
	OrganizationID     *string           `json:"organization_id"`
}

type AssessmentRequest struct {
	Name           string            `json:"name" validate:"required,min=1,max=200"`
	Description    *string           `json:"description" validate:"omitempty,max=1000"`
	Difficulty     models.Difficulty `json:"difficulty" validate:"required,difficulty_level"`
	TimeDuration   string            `json:"time_duration" validate:"required"`
	Questions      []uint            `json:"questions" validate:"required,min=1"`
	IsActive       *bool             `json:"is_active"`
	OrganizationID *string           `json:"organization_id"`
}
