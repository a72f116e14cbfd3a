// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/registry-auth/internal/errors"
)

// supportedKeyURISchemes lists the gocloud.dev secrets keepers linked into the binary.
var supportedKeyURISchemes = []string{
	"base64key",
	"awskms",
	"gcpkms",
	"azurekeyvault",
	"hashivault",
}

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// LogLevel validates that a string names a supported slog level.
var LogLevel = validation.In("debug", "info", "warn", "error").
	Error("must be one of debug, info, warn, error")

// KeyURI validates that a string is a secrets keeper URI with a supported scheme.
var KeyURI = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		for _, scheme := range supportedKeyURISchemes {
			if u.Scheme == scheme {
				return true
			}
		}
		return false
	},
	validation.NewError(
		"validation_key_uri",
		"must be a base64key://, awskms://, gcpkms://, azurekeyvault:// or hashivault:// URI",
	),
)
