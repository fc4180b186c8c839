package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/coding-assessment/internal/languages"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with the domain checks that tags
// cannot express.
type Validator struct {
	structValidator     *validator.Validate
	questionValidator   *QuestionValidator
	assessmentValidator *AssessmentValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:     structValidator,
		questionValidator:   NewQuestionValidator(),
		assessmentValidator: NewAssessmentValidator(),
	}
}

// ValidateStruct validates struct tags only and converts failures to
// ValidationErrors.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Validate performs complete validation (struct + domain rules)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	var errs ValidationErrors
	switch obj := s.(type) {
	case *models.CodingQuestion:
		errs = v.questionValidator.Validate(obj)
	case *models.Assessment:
		errs = v.assessmentValidator.Validate(obj)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// Assessment returns the assessment validator
func (v *Validator) Assessment() *AssessmentValidator {
	return v.assessmentValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	// Difficulty level validation
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)

	// Editor language validation
	validate.RegisterValidation("language", validateLanguage)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.Difficulty{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validateLanguage(fl validator.FieldLevel) bool {
	return languages.IsSupported(fl.Field().String())
}
