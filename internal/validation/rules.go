// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/secretdrop/secretdrop/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// AccessKey validates that a string has the shape of a secret access key.
var AccessKey = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil && s == strings.ToLower(s)
	},
	validation.NewError("validation_access_key", "must be a valid secret key"),
)

// MaxBytes validates that a string is at most limit bytes long once encoded.
// A non-positive limit disables the check.
func MaxBytes(limit int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_max_bytes_type", "must be a string")
		}
		if limit > 0 && len(s) > limit {
			return validation.NewError(
				"validation_max_bytes",
				fmt.Sprintf("must be at most %d bytes", limit),
			)
		}
		return nil
	})
}
