// Package errors defines the error taxonomy shared by every module: a small
// set of sentinel kinds plus helpers to wrap and match them. Use cases return
// errors wrapping one of the kinds and handlers map the kind to a status code,
// so no layer in between needs to know the concrete cause.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every domain error wraps exactly one of these.
var (
	// ErrNotFound marks a lookup that matched no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a clash with existing data, typically a duplicate
	// name or slug, or an operation refused on a protected row.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput marks input that failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized marks a failed credential check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an authenticated caller without the needed grant.
	ErrForbidden = errors.New("forbidden")
)

// New returns an error with the given message. Mirrors errors.New so callers
// only import this package.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping err in the chain so Is and As still
// see it. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
