package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"github.com/SAP-F-2025/coding-assessment/internal/services"
	"github.com/SAP-F-2025/coding-assessment/internal/utils"
)

type ResponseHandler struct {
	BaseHandler
	submissionService services.SubmissionService
}

func NewResponseHandler(submissionService services.SubmissionService, logger utils.Logger) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
	}
}

// ListResponses lists submitted responses
// @Summary List responses
// @Tags responses
// @Produce json
// @Param interview_id query string false "Interview ID"
// @Param email query string false "Candidate email"
// @Param assessment_id query int false "Assessment ID"
// @Success 200 {object} ListResponse
// @Router /responses [get]
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	page, size := parsePage(c)
	filters := repositories.ResponseFilters{
		InterviewID: c.Query("interview_id"),
		Email:       c.Query("email"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Limit:       size,
		Offset:      (page - 1) * size,
	}
	if raw := c.Query("assessment_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid assessment_id",
				Details: err.Error(),
			})
			return
		}
		assessmentID := uint(id)
		filters.AssessmentID = &assessmentID
	}

	responses, total, err := h.submissionService.ListResponses(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: responses, Total: total, Page: page, Size: size})
}

// GetResponse retrieves one submitted response
// @Router /responses/{id} [get]
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	response, err := h.submissionService.GetResponse(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
