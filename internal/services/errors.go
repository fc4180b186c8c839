package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/coding-assessment/internal/errors"
	"github.com/SAP-F-2025/coding-assessment/internal/session"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Assessment specific errors
	ErrAssessmentNotFound      = errors.New("assessment not found")
	ErrAssessmentInactive      = errors.New("assessment is not active")
	ErrAssessmentDuplicateName = errors.New("assessment name already exists for this user")
	ErrNoAssessmentLinked      = errors.New("no assessment linked")

	// Question specific errors
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionInUse    = errors.New("question is used by one or more assessments")

	// Session specific errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrSubmissionInProgress = errors.New("submission is already being saved")

	// Response specific errors
	ErrResponseNotFound = errors.New("response not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResponseNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, apperrors.ErrEmptyCode) ||
		errors.Is(err, session.ErrCandidateRequired) ||
		errors.Is(err, session.ErrUnsupportedLanguage) ||
		errors.Is(err, session.ErrTestIndexOutOfRange) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict, including
// session events that do not apply to the current phase
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAssessmentDuplicateName) ||
		errors.Is(err, ErrQuestionInUse) ||
		errors.Is(err, ErrSubmissionInProgress) ||
		errors.Is(err, session.ErrNotLoading) ||
		errors.Is(err, session.ErrNotInProgress) ||
		errors.Is(err, session.ErrNotAwaitingInfo) ||
		errors.Is(err, session.ErrAlreadySubmitted) ||
		errors.Is(err, session.ErrUnavailable) ||
		errors.Is(err, session.ErrNothingToRetry)
}
