package domain

import (
	"github.com/julianstoll1/access-dashboard/internal/errors"
)

// API key credential errors.
var (
	// ErrAPIKeyNotFound indicates no credential exists for the given id/project pair.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrAPIKeyNameTaken indicates another credential in the project already uses
	// the name (case-insensitive comparison).
	ErrAPIKeyNameTaken = errors.Wrap(errors.ErrConflict, "API key name already exists")

	// ErrInvalidAPIKey is returned uniformly for unknown, revoked and deleted
	// secrets so callers cannot distinguish the cases.
	ErrInvalidAPIKey = errors.Wrap(errors.ErrUnauthorized, "invalid API key")

	// ErrAPIKeyNotActive indicates a rotate was attempted on a non-active credential.
	ErrAPIKeyNotActive = errors.Wrap(errors.ErrConflict, "only active API keys can be rotated")

	// ErrProjectKeyLimit translates the retired one-key-per-project unique
	// constraint into an actionable message instead of a raw constraint name.
	ErrProjectKeyLimit = errors.Wrap(
		errors.ErrConflict,
		"project already has an API key: rotate it or delete it first",
	)
)
