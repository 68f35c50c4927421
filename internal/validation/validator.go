package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/comment-gateway-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// MaxItemIDLength bounds the item identifier taken from the path
const MaxItemIDLength = 200

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// commentFields is the validated shape of a submission, after trimming
type commentFields struct {
	Author  string `validate:"required,max=50"`
	Content string `validate:"required,max=2000"`
	Mood    string `validate:"omitempty,mood"`
}

type itemFields struct {
	ItemID string `validate:"required,max=200,printascii"`
}

// Validator provides validation methods. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return models.ValidMoods[models.Mood(fl.Field().String())]
	})
	return &Validator{validate: v}
}

// ValidateComment checks author, content and mood bounds. Inputs are
// expected to be trimmed already.
func (v *Validator) ValidateComment(author, content, mood string) []ValidationError {
	err := v.validate.Struct(commentFields{Author: author, Content: content, Mood: mood})
	return toValidationErrors(err)
}

// ValidateItemID checks the item identifier
func (v *Validator) ValidateItemID(itemID string) []ValidationError {
	err := v.validate.Struct(itemFields{ItemID: itemID})
	return toValidationErrors(err)
}

func toValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "", Message: "invalid input"}}
	}

	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   jsonName(fe.Field()),
			Message: message(fe),
		})
	}
	return errs
}

func message(fe validator.FieldError) string {
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "mood":
		return fmt.Sprintf("mood must be one of: %s", strings.Join(moodNames(), ", "))
	case "printascii":
		return fmt.Sprintf("%s contains unsupported characters", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func jsonName(field string) string {
	switch field {
	case "ItemID":
		return "itemId"
	default:
		return strings.ToLower(field)
	}
}

func moodNames() []string {
	names := make([]string, 0, len(models.ValidMoods))
	for mood := range models.ValidMoods {
		names = append(names, string(mood))
	}
	sort.Strings(names)
	return names
}
