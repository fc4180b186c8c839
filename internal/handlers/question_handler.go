package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"github.com/SAP-F-2025/coding-assessment/internal/services"
	"github.com/SAP-F-2025/coding-assessment/internal/utils"
)

type QuestionHandler struct {
	BaseHandler
	authoringService services.AuthoringService
}

func NewQuestionHandler(authoringService services.AuthoringService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:      NewBaseHandler(logger),
		authoringService: authoringService,
	}
}

// CreateQuestion creates a new coding question
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.QuestionRequest true "Question data"
// @Success 201 {object} models.CodingQuestion
// @Failure 400 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.authoringService.CreateQuestion(c.Request.Context(), &req, userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetQuestion retrieves a question by ID
// @Summary Get question
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} models.CodingQuestion
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	question, err := h.authoringService.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// UpdateQuestion replaces a question's content
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Updating question", "question_id", id)

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.authoringService.UpdateQuestion(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion deletes a question that no assessment uses
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Deleting question", "question_id", id)

	if err := h.authoringService.DeleteQuestion(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListQuestions lists questions with filters
// @Summary List questions
// @Tags questions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param difficulty query string false "easy, medium or hard"
// @Param search query string false "Title search"
// @Param mine query bool false "Only questions owned by the caller"
// @Success 200 {object} ListResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	page, size := parsePage(c)
	filters := repositories.QuestionFilters{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Limit:     size,
		Offset:    (page - 1) * size,
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		d := models.Difficulty(difficulty)
		filters.Difficulty = &d
	}
	if c.Query("mine") == "true" {
		filters.UserID = userID(c)
	}

	questions, total, err := h.authoringService.ListQuestions(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: questions, Total: total, Page: page, Size: size})
}
