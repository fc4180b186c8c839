package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
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
	"github.com/SAP-F-2025/coding-assessment/internal/services"
	"github.com/SAP-F-2025/coding-assessment/internal/utils"
	"github.com/SAP-F-2025/coding-assessment/internal/validator"
)

type acceptingRunner struct{}

func (acceptingRunner) Run(ctx context.Context, sourceCode string, languageID int, testCases []models.TestCase) (*runner.Outcome, error) {
	stdout := "ok"
	return &runner.Outcome{
		Status:          runner.StatusAccepted,
		Stdout:          &stdout,
		PassedTestCases: len(testCases),
		TotalTestCases:  len(testCases),
	}, nil
}

type testServer struct {
	router    *gin.Engine
	repo      repositories.Repository
	publisher *events.MockEventPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	log := utils.NewSlogLogger(slogger)
	repo := postgres.NewRepository(db)
	cacheService := cache.NewRedisCache(client, zap.NewNop())
	publisher := events.NewMockEventPublisher(slogger)
	v := validator.New()

	submissions := services.NewSubmissionService(repo, cacheService, slogger)
	sessions := services.NewSessionService(
		repo,
		services.NewAssessmentLoader(repo, cacheService, slogger),
		acceptingRunner{},
		submissions,
		publisher,
		v,
		slogger,
		services.SessionConfig{TickInterval: time.Hour, Retention: time.Hour, DefaultLanguage: "python"},
	)
	t.Cleanup(sessions.Shutdown)

	router := gin.New()
	router.Use(utils.RequestID(), utils.ContextLogger(log))
	NewHandlerManager(ServiceSet{
		Sessions:    sessions,
		Submissions: submissions,
		Authoring:   services.NewAuthoringService(repo, cacheService, v, slogger),
		Export:      services.NewExportService(repo, slogger),
	}, v, log).SetupRoutes(router)

	return &testServer{router: router, repo: repo, publisher: publisher}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, "staff-1")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (s *testServer) seedAssessment(t *testing.T) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/questions", services.QuestionRequest{
		Title:       "Echo",
		Description: "Print the input",
		Difficulty:  models.DifficultyEasy,
		TestCases: []models.TestCase{
			{Input: "1", Output: "1"},
			{Input: "2", Output: "2", IsHidden: true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var question models.CodingQuestion
	decode(t, w, &question)

	w = s.do(t, http.MethodPost, "/api/v1/assessments", services.AssessmentRequest{
		Name:         "Screening",
		Difficulty:   models.DifficultyEasy,
		TimeDuration: "20",
		Questions:    []uint{question.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var assessment models.Assessment
	decode(t, w, &assessment)
	return assessment.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "coding-assessment")
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))
}

func TestSessionRoutes_FullFlow(t *testing.T) {
	s := newTestServer(t)
	assessmentID := s.seedAssessment(t)

	w := s.do(t, http.MethodPost, "/api/v1/sessions", services.StartSessionRequest{AssessmentID: assessmentID, InterviewID: "iv-9"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view services.SessionView
	decode(t, w, &view)
	assert.Equal(t, "awaiting_candidate", string(view.Phase))
	assert.Equal(t, "00:20:00", view.TimeDisplay)
	base := "/api/v1/sessions/" + view.ID

	w = s.do(t, http.MethodPost, base+"/navigate", NavigateRequest{Delta: 1})
	assert.Equal(t, http.StatusConflict, w.Code, "navigation needs candidate details first")

	w = s.do(t, http.MethodPost, base+"/candidate", services.CandidateRequest{Name: "Grace", Email: "grace@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &view)
	assert.Equal(t, "in_progress", string(view.Phase))

	w = s.do(t, http.MethodPut, base+"/language", LanguageRequest{Language: "cobol"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, base+"/code", CodeRequest{Code: "print(input())"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, base+"/run", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &view)
	require.NotNil(t, view.Result)
	assert.Equal(t, 2, view.Result.PassedTestCases)

	hidden := true
	w = s.do(t, http.MethodPost, base+"/visibility", VisibilityRequest{Hidden: &hidden})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &view)
	assert.Equal(t, 1, view.TabSwitchCount)

	w = s.do(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &view)
	assert.Equal(t, "completed", string(view.Phase))
	require.NotNil(t, view.ResponseID)
	require.NotNil(t, view.Score)
	assert.Equal(t, 100, *view.Score)

	w = s.do(t, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, base+"/integrity-events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var integrity []models.IntegrityEvent
	decode(t, w, &integrity)
	assert.Len(t, integrity, 1)

	w = s.do(t, http.MethodGet, "/api/v1/responses?interview_id=iv-9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []models.AssessmentResponse `json:"items"`
		Total int64                       `json:"total"`
	}
	decode(t, w, &list)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Items, 1)
	require.NotNil(t, list.Items[0].Email)
	assert.Equal(t, "grace@example.com", *list.Items[0].Email)

	w = s.do(t, http.MethodGet, "/api/v1/responses/"+strconv.FormatUint(uint64(*view.ResponseID), 10), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/assessments/"+strconv.FormatUint(uint64(assessmentID), 10)+"/responses/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "responses.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestSessionRoutes_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"unknown session", http.MethodGet, "/api/v1/sessions/missing", nil, http.StatusNotFound},
		{"invalid candidate email", http.MethodPost, "/api/v1/sessions", map[string]interface{}{"assessment_id": 1, "email": "nope"}, http.StatusBadRequest},
		{"invalid navigate delta", http.MethodPost, "/api/v1/sessions/missing/navigate", NavigateRequest{Delta: 2}, http.StatusBadRequest},
		{"visibility without flag", http.MethodPost, "/api/v1/sessions/missing/visibility", map[string]interface{}{}, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/v1/sessions", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestStartSession_UnknownAssessmentIsUnavailable(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/sessions", services.StartSessionRequest{AssessmentID: 999})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view services.SessionView
	decode(t, w, &view)
	assert.Equal(t, "unavailable", string(view.Phase))
	assert.NotEmpty(t, view.UnavailableReason)
}

func TestStartSession_WithoutAssessmentIsUnavailable(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/sessions", map[string]interface{}{"interview_id": "iv-1"})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view services.SessionView
	decode(t, w, &view)
	assert.Equal(t, "unavailable", string(view.Phase))
	assert.Equal(t, services.ErrNoAssessmentLinked.Error(), view.UnavailableReason)
}

func TestQuestionRoutes(t *testing.T) {
	s := newTestServer(t)
	assessmentID := s.seedAssessment(t)

	w := s.do(t, http.MethodPost, "/api/v1/questions", services.QuestionRequest{Title: "No cases"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/questions?difficulty=easy&mine=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []models.CodingQuestion `json:"items"`
		Total int64                   `json:"total"`
		Size  int                     `json:"size"`
	}
	decode(t, w, &list)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, defaultPageSize, list.Size)
	require.Len(t, list.Items, 1)
	questionPath := "/api/v1/questions/" + strconv.FormatUint(uint64(list.Items[0].ID), 10)

	w = s.do(t, http.MethodDelete, questionPath, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "question is used by an assessment")

	w = s.do(t, http.MethodDelete, "/api/v1/assessments/"+strconv.FormatUint(uint64(assessmentID), 10), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, questionPath, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, questionPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/questions/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentRoutes(t *testing.T) {
	s := newTestServer(t)
	assessmentID := s.seedAssessment(t)
	path := "/api/v1/assessments/" + strconv.FormatUint(uint64(assessmentID), 10)

	w := s.do(t, http.MethodPost, "/api/v1/assessments", services.AssessmentRequest{
		Name:         "Screening",
		Difficulty:   models.DifficultyEasy,
		TimeDuration: "20",
		Questions:    []uint{1},
	})
	assert.Equal(t, http.StatusConflict, w.Code, "duplicate name")

	w = s.do(t, http.MethodPost, "/api/v1/assessments", services.AssessmentRequest{
		Name:         "Ghost questions",
		Difficulty:   models.DifficultyEasy,
		TimeDuration: "20",
		Questions:    []uint{404},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var assessment models.Assessment
	decode(t, w, &assessment)
	assert.Equal(t, 1, assessment.QuestionCount)

	w = s.do(t, http.MethodGet, path+"/responses/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats repositories.ResponseStats
	decode(t, w, &stats)
	assert.Zero(t, stats.TotalResponses)

	w = s.do(t, http.MethodGet, "/api/v1/assessments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestListResponses_BadAssessmentID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/responses?assessment_id=x", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
