// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/ghostpass/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
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

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// UUID validates that a string parses as a UUID.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// BearerToken validates the shape of an access-token bearer value: unpadded or
// padded base64url decoding to exactly 32 bytes.
var BearerToken = validation.NewStringRuleWithError(
	func(s string) bool {
		decoded, err := base64.URLEncoding.DecodeString(s)
		if err != nil {
			decoded, err = base64.RawURLEncoding.DecodeString(s)
		}
		return err == nil && len(decoded) == 32
	},
	validation.NewError("validation_bearer_token", "must be a valid access token"),
)
