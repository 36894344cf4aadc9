// Package validation provides custom validation rules and the pure input
// normalization helpers used before any mutation reaches storage.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
)

var (
	// slugRegex matches lowercase, dot-delimited machine-facing identifiers.
	slugRegex = regexp.MustCompile(`^[a-z0-9.]+$`)

	// nonSlugRunRegex matches runs of characters that Slugify collapses to a dot.
	nonSlugRunRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// Field length bounds per entity kind.
const (
	NameMinLength = 2

	NameMaxLength        = 64  // roles and permissions
	APIKeyNameMaxLength  = 80  // api key credentials
	ProjectNameMaxLength = 120 // projects

	SlugMaxLength = 64

	DescriptionMaxLength        = 500
	ProjectDescriptionMaxLength = 1000
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Slug validates that a string is a lowercase, dot-delimited identifier.
var Slug = validation.NewStringRuleWithError(
	func(s string) bool {
		return slugRegex.MatchString(s)
	},
	validation.NewError("validation_slug", "must contain only lowercase letters, digits and dots"),
)

// NormalizeName trims surrounding whitespace from a display name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeSlug trims and lowercases a slug value.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// NormalizeDescription trims a description; an empty result means "absent"
// and is returned as nil.
func NormalizeDescription(description string) *string {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Slugify derives a slug candidate from a display name: lowercase, collapse
// non-alphanumeric runs to single dots, trim leading/trailing dots. Callers
// use it to pre-fill slug fields; the submitted slug value is what gets
// validated and stored.
func Slugify(name string) string {
	slug := nonSlugRunRegex.ReplaceAllString(strings.ToLower(name), ".")
	return strings.Trim(slug, ".")
}
