package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
)

const (
	MaxTestCases     = 50
	MaxTestCaseBytes = 64 * 1024
	MaxDuration      = 24 * 60
)

// QuestionValidator checks coding question content.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// Validate checks the test case list of a question.
func (v *QuestionValidator) Validate(q *models.CodingQuestion) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(q.Title) == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "is required", Rule: "required"})
	}

	if len(q.TestCases) == 0 {
		errs = append(errs, ValidationError{
			Field:   "test_cases",
			Message: "must contain at least one test case",
			Rule:    "min",
		})
		return errs
	}
	if len(q.TestCases) > MaxTestCases {
		errs = append(errs, ValidationError{
			Field:   "test_cases",
			Message: fmt.Sprintf("cannot have more than %d test cases", MaxTestCases),
			Value:   len(q.TestCases),
			Rule:    "max",
		})
	}

	for i, tc := range q.TestCases {
		field := fmt.Sprintf("test_cases[%d]", i)
		if strings.TrimSpace(tc.Output) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".output",
				Message: "expected output is required",
				Rule:    "required",
			})
		}
		if len(tc.Input) > MaxTestCaseBytes || len(tc.Output) > MaxTestCaseBytes {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("input and output must be at most %d bytes", MaxTestCaseBytes),
				Rule:    "max",
			})
		}
	}

	return errs
}

// ValidateUsage rejects destructive operations on questions still referenced
// by an assessment.
func (v *QuestionValidator) ValidateUsage(usedBy int, operation string) error {
	if usedBy > 0 {
		return fmt.Errorf("cannot %s question: used by %d assessment(s)", operation, usedBy)
	}
	return nil
}

// AssessmentValidator checks assessment parameters.
type AssessmentValidator struct{}

func NewAssessmentValidator() *AssessmentValidator {
	return &AssessmentValidator{}
}

// Validate checks the duration and that the declared question count matches
// the question list.
func (v *AssessmentValidator) Validate(a *models.Assessment) ValidationErrors {
	var errs ValidationErrors

	minutes, err := strconv.Atoi(strings.TrimSpace(a.TimeDuration))
	switch {
	case err != nil:
		errs = append(errs, ValidationError{
			Field:   "time_duration",
			Message: "must be a whole number of minutes",
			Value:   a.TimeDuration,
			Rule:    "numeric",
		})
	case minutes < 1 || minutes > MaxDuration:
		errs = append(errs, ValidationError{
			Field:   "time_duration",
			Message: fmt.Sprintf("must be between 1 and %d minutes", MaxDuration),
			Value:   minutes,
			Rule:    "range",
		})
	}

	if a.QuestionCount != len(a.Questions) {
		errs = append(errs, ValidationError{
			Field:   "question_count",
			Message: "must equal the number of questions",
			Value:   a.QuestionCount,
			Rule:    "question_count",
		})
	}

	seen := make(map[uint]bool, len(a.Questions))
	for _, id := range a.Questions {
		if seen[id] {
			errs = append(errs, ValidationError{
				Field:   "questions",
				Message: fmt.Sprintf("question %d is listed more than once", id),
				Value:   id,
				Rule:    "unique",
			})
		}
		seen[id] = true
	}

	return errs
}
