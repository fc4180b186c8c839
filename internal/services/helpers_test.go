package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/coding-assessment/internal/cache"
	"github.com/SAP-F-2025/coding-assessment/internal/events"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories/postgres"
	"github.com/SAP-F-2025/coding-assessment/internal/runner"
	"github.com/SAP-F-2025/coding-assessment/internal/validator"
)

type testEnv struct {
	repo      repositories.Repository
	cache     cache.CacheService
	redis     *miniredis.Miniredis
	publisher *events.MockEventPublisher
	validator *validator.Validator
	logger    *slog.Logger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&models.CodingQuestion{},
		&models.Assessment{},
		&models.AssessmentResponse{},
		&models.IntegrityEvent{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := discardLogger()
	return &testEnv{
		repo:      postgres.NewRepository(db),
		cache:     cache.NewRedisCache(client, zap.NewNop()),
		redis:     mr,
		publisher: events.NewMockEventPublisher(log),
		validator: validator.New(),
		logger:    log,
	}
}

func (e *testEnv) seedQuestion(t *testing.T, title string, active bool) *models.CodingQuestion {
	t.Helper()
	q := &models.CodingQuestion{
		Title:       title,
		Description: "Solve " + title,
		Difficulty:  models.DifficultyEasy,
		TestCases: []models.TestCase{
			{Input: "1", Output: "1"},
			{Input: "2", Output: "4", IsHidden: true},
		},
		IsActive: true,
		UserID:   "staff-1",
	}
	require.NoError(t, e.repo.Questions().Create(context.Background(), nil, q))
	if !active {
		q.IsActive = false
		require.NoError(t, e.repo.Questions().Update(context.Background(), nil, q))
	}
	return q
}

func (e *testEnv) seedAssessment(t *testing.T, name string, questionIDs ...uint) *models.Assessment {
	t.Helper()
	a := &models.Assessment{
		Name:         name,
		Difficulty:   models.DifficultyMedium,
		TimeDuration: "30",
		Questions:    questionIDs,
		IsActive:     true,
		UserID:       "staff-1",
	}
	a.SyncQuestionCount()
	require.NoError(t, e.repo.Assessments().Create(context.Background(), nil, a))
	return a
}

// fixedRunner returns the same outcome for every run
type fixedRunner struct {
	mu      sync.Mutex
	calls   int
	outcome *runner.Outcome
	err     error
}

func (r *fixedRunner) Run(ctx context.Context, sourceCode string, languageID int, testCases []models.TestCase) (*runner.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.outcome, r.err
}

func strPtr(s string) *string {
	return &s
}
