// Package usecase implements business logic orchestration for API key credentials.
//
// Use cases coordinate between the key service (secret generation and hashing),
// the key cipher (reversible secret storage) and the repository, implementing
// the credential lifecycle: generate, rotate, reveal, authenticate-and-track,
// delete. Every successful mutation is recorded in the audit trail.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/julianstoll1/access-dashboard/internal/apikey/domain"
	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
)

// APIKeyRepository defines persistence operations for API key credentials.
type APIKeyRepository interface {
	// Create inserts a new credential. Returns ErrAPIKeyNameTaken on a
	// duplicate per-project name and ErrProjectKeyLimit when the legacy
	// single-key constraint fires.
	Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error

	// Get retrieves a credential by project and id.
	Get(ctx context.Context, projectID, keyID uuid.UUID) (*apikeyDomain.APIKey, error)

	// ExistsWithName reports whether the project already has a credential with
	// the given name (case-insensitive). excludeID skips the row being rotated.
	ExistsWithName(ctx context.Context, projectID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// List retrieves all credentials for a project.
	List(ctx context.Context, projectID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// Delete removes a credential by project and id.
	Delete(ctx context.Context, projectID, keyID uuid.UUID) error

	// TouchByHash atomically increments usage_count and stamps last_used_at
	// for the active credential matching the hash.
	TouchByHash(ctx context.Context, keyHash string, usedAt time.Time) (*apikeyDomain.APIKey, error)
}

// AuditRecorder appends audit trail entries for completed mutations.
// Satisfied by the audit use case; failures never propagate to the caller.
type AuditRecorder interface {
	Record(
		ctx context.Context,
		projectID uuid.UUID,
		entityType auditDomain.EntityType,
		entityID *uuid.UUID,
		action auditDomain.Action,
		metadata map[string]any,
	)
}

// APIKeyUseCase manages the API key credential lifecycle.
type APIKeyUseCase interface {
	// Generate creates a new credential and returns the raw secret exactly once.
	Generate(ctx context.Context, projectID uuid.UUID, input *apikeyDomain.GenerateAPIKeyInput) (*apikeyDomain.GenerateAPIKeyOutput, error)

	// Rotate replaces an active credential with a brand-new one (new id, new
	// secret) under the same logical name, then deletes the old record.
	Rotate(ctx context.Context, projectID, keyID uuid.UUID, input *apikeyDomain.GenerateAPIKeyInput) (*apikeyDomain.GenerateAPIKeyOutput, error)

	// Reveal decrypts and returns a credential's raw secret on demand.
	Reveal(ctx context.Context, projectID, keyID uuid.UUID) (*apikeyDomain.RevealAPIKeyOutput, error)

	// Authenticate verifies a raw secret and tracks its use. Unknown, revoked
	// and deleted credentials are indistinguishable to the caller.
	Authenticate(ctx context.Context, plainKey string) (*apikeyDomain.AuthenticateOutput, error)

	// Get retrieves a credential by project and id.
	Get(ctx context.Context, projectID, keyID uuid.UUID) (*apikeyDomain.APIKey, error)

	// List retrieves all credentials for a project.
	List(ctx context.Context, projectID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// Delete removes a credential.
	Delete(ctx context.Context, projectID, keyID uuid.UUID) error
}
