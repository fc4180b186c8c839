package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/coding-assessment/internal/services"
	"github.com/SAP-F-2025/coding-assessment/internal/utils"
	"github.com/SAP-F-2025/coding-assessment/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService    services.SessionService
	submissionService services.SubmissionService
	validator         *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	submissionService services.SubmissionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:       NewBaseHandler(logger),
		sessionService:    sessionService,
		submissionService: submissionService,
		validator:         validator,
	}
}

type LanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type NavigateRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

type RunRequest struct {
	TestIndex *int `json:"test_index" validate:"omitempty,min=0"`
}

type VisibilityRequest struct {
	Hidden *bool `json:"hidden" validate:"required"`
}

// StartSession creates a session for an assessment
// @Summary Start session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Session data"
// @Success 201 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if !h.bind(c, &req) {
		return
	}
	h.LogRequest(c, "Starting session", "assessment_id", req.AssessmentID)

	view, err := h.sessionService.Start(h.requestContext(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession returns the current view of a session
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SessionView
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	view, err := h.sessionService.Get(c.Request.Context(), id)
	h.respond(c, view, err)
}

// SubmitCandidate records the candidate's name and email
// @Router /sessions/{id}/candidate [post]
func (h *SessionHandler) SubmitCandidate(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req services.CandidateRequest
	if !h.bind(c, &req) {
		return
	}
	view, err := h.sessionService.SubmitCandidate(h.requestContext(c), id, &req)
	h.respond(c, view, err)
}

// ChangeLanguage switches the editor language of the current question
// @Router /sessions/{id}/language [put]
func (h *SessionHandler) ChangeLanguage(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req LanguageRequest
	if !h.bind(c, &req) {
		return
	}
	view, err := h.sessionService.ChangeLanguage(h.requestContext(c), id, req.Language)
	h.respond(c, view, err)
}

// EditCode replaces the editor buffer
// @Router /sessions/{id}/code [put]
func (h *SessionHandler) EditCode(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req CodeRequest
	if !h.bind(c, &req) {
		return
	}
	view, err := h.sessionService.EditCode(h.requestContext(c), id, req.Code)
	h.respond(c, view, err)
}

// Navigate moves to the previous or next question
// @Router /sessions/{id}/navigate [post]
func (h *SessionHandler) Navigate(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req NavigateRequest
	if !h.bind(c, &req) {
		return
	}
	view, err := h.sessionService.Navigate(h.requestContext(c), id, req.Delta)
	h.respond(c, view, err)
}

// RunTests runs the current code against the current question's test cases,
// or a single visible one when test_index is given. The body is optional.
// @Router /sessions/{id}/run [post]
func (h *SessionHandler) RunTests(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req RunRequest
	if c.Request.ContentLength > 0 && !h.bind(c, &req) {
		return
	}
	h.LogRequest(c, "Running tests", "session_id", id)

	view, err := h.sessionService.RunTests(h.requestContext(c), id, req.TestIndex)
	h.respond(c, view, err)
}

// Submit ends the session and stores the response
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	h.LogRequest(c, "Submitting session", "session_id", id)

	view, err := h.sessionService.Submit(h.requestContext(c), id)
	h.respond(c, view, err)
}

// RetrySubmit retries saving a submission that failed to persist
// @Router /sessions/{id}/submit/retry [post]
func (h *SessionHandler) RetrySubmit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	view, err := h.sessionService.RetrySubmit(h.requestContext(c), id)
	h.respond(c, view, err)
}

// SetVisibility reports the page becoming hidden or visible
// @Router /sessions/{id}/visibility [post]
func (h *SessionHandler) SetVisibility(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req VisibilityRequest
	if !h.bind(c, &req) {
		return
	}
	view, err := h.sessionService.SetVisibility(h.requestContext(c), id, *req.Hidden)
	h.respond(c, view, err)
}

// GetIntegrityEvents lists the recorded tab switches of a session
// @Router /sessions/{id}/integrity-events [get]
func (h *SessionHandler) GetIntegrityEvents(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	events, err := h.submissionService.GetIntegrityEvents(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ===== HELPERS =====

func (h *SessionHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.handleServiceError(c, err)
		return false
	}
	return true
}

func (h *SessionHandler) requestContext(c *gin.Context) context.Context {
	return services.WithClientMeta(c.Request.Context(), services.ClientMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
}

// respond attaches the session view to error responses so the client can
// render the state a failed run or save left behind
func (h *SessionHandler) respond(c *gin.Context, view *services.SessionView, err error) {
	if err != nil {
		if view != nil {
			h.handleServiceError(c, err, gin.H{"session": view})
		} else {
			h.handleServiceError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}
