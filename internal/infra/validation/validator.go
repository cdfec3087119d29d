// Package validation wraps go-playground/validator so every caller reports
// failures as the VALIDATION_FAILED domain error.
package validation

import (
	"fmt"
	"strings"

	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Validator checks `validate` struct tags. It also satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with required-struct checking enabled.
func New() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate runs the struct's validate tags and reports failures as ErrValidationFailed.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "failed to validate input")
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
