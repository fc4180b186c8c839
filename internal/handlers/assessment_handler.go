package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"github.com/SAP-F-2025/coding-assessment/internal/services"
	"github.com/SAP-F-2025/coding-assessment/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AssessmentHandler struct {
	BaseHandler
	authoringService  services.AuthoringService
	submissionService services.SubmissionService
	exportService     services.ExportService
}

func NewAssessmentHandler(
	authoringService services.AuthoringService,
	submissionService services.SubmissionService,
	exportService services.ExportService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		authoringService:  authoringService,
		submissionService: submissionService,
		exportService:     exportService,
	}
}

// CreateAssessment creates a new assessment
// @Summary Create assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Param assessment body services.AssessmentRequest true "Assessment data"
// @Success 201 {object} models.Assessment
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	h.LogRequest(c, "Creating assessment")

	var req services.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	assessment, err := h.authoringService.CreateAssessment(c.Request.Context(), &req, userID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// GetAssessment retrieves an assessment by ID
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assessment, err := h.authoringService.GetAssessment(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// UpdateAssessment replaces an assessment's settings and question list
// @Router /assessments/{id} [put]
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Updating assessment", "assessment_id", id)

	var req services.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	assessment, err := h.authoringService.UpdateAssessment(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// DeleteAssessment deletes an assessment
// @Router /assessments/{id} [delete]
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Deleting assessment", "assessment_id", id)

	if err := h.authoringService.DeleteAssessment(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAssessments lists assessments with filters
// @Router /assessments [get]
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	page, size := parsePage(c)
	filters := repositories.AssessmentFilters{
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

	assessments, total, err := h.authoringService.ListAssessments(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: assessments, Total: total, Page: page, Size: size})
}

// GetAssessmentStats summarizes the responses to an assessment
// @Router /assessments/{id}/responses/stats [get]
func (h *AssessmentHandler) GetAssessmentStats(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.submissionService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportResponses downloads every response to an assessment as a spreadsheet
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /assessments/{id}/responses/export [get]
func (h *AssessmentHandler) ExportResponses(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	h.LogRequest(c, "Exporting responses", "assessment_id", id)

	data, err := h.exportService.ExportAssessmentResponses(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment-%d-responses.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}
