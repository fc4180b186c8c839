package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/coding-assessment/internal/languages"
	"github.com/SAP-F-2025/coding-assessment/internal/services"
	"github.com/SAP-F-2025/coding-assessment/internal/utils"
	"github.com/SAP-F-2025/coding-assessment/internal/validator"
)

// ServiceSet groups the services the HTTP surface depends on
type ServiceSet struct {
	Sessions    services.SessionService
	Submissions services.SubmissionService
	Authoring   services.AuthoringService
	Export      services.ExportService
}

type HandlerManager struct {
	sessionHandler    *SessionHandler
	questionHandler   *QuestionHandler
	assessmentHandler *AssessmentHandler
	responseHandler   *ResponseHandler
}

func NewHandlerManager(svc ServiceSet, validator *validator.Validator, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		sessionHandler:    NewSessionHandler(svc.Sessions, svc.Submissions, validator, logger),
		questionHandler:   NewQuestionHandler(svc.Authoring, logger),
		assessmentHandler: NewAssessmentHandler(svc.Authoring, svc.Submissions, svc.Export, logger),
		responseHandler:   NewResponseHandler(svc.Submissions, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "coding-assessment",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/languages", func(c *gin.Context) {
			c.JSON(http.StatusOK, languages.All())
		})

		// Candidate session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/candidate", hm.sessionHandler.SubmitCandidate)
			sessions.PUT("/:id/language", hm.sessionHandler.ChangeLanguage)
			sessions.PUT("/:id/code", hm.sessionHandler.EditCode)
			sessions.POST("/:id/navigate", hm.sessionHandler.Navigate)
			sessions.POST("/:id/run", hm.sessionHandler.RunTests)
			sessions.POST("/:id/submit", hm.sessionHandler.Submit)
			sessions.POST("/:id/submit/retry", hm.sessionHandler.RetrySubmit)
			sessions.POST("/:id/visibility", hm.sessionHandler.SetVisibility)
			sessions.GET("/:id/integrity-events", hm.sessionHandler.GetIntegrityEvents)
		}

		// Question routes
		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
		}

		// Assessment routes
		assessments := v1.Group("/assessments")
		{
			assessments.POST("", hm.assessmentHandler.CreateAssessment)
			assessments.GET("", hm.assessmentHandler.ListAssessments)
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
			assessments.PUT("/:id", hm.assessmentHandler.UpdateAssessment)
			assessments.DELETE("/:id", hm.assessmentHandler.DeleteAssessment)
			assessments.GET("/:id/responses/stats", hm.assessmentHandler.GetAssessmentStats)
			assessments.GET("/:id/responses/export", hm.assessmentHandler.ExportResponses)
		}

		// Reviewer routes
		responses := v1.Group("/responses")
		{
			responses.GET("", hm.responseHandler.ListResponses)
			responses.GET("/:id", hm.responseHandler.GetResponse)
		}
	}
}
