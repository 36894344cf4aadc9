package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/julianstoll1/access-dashboard/internal/apikey/domain"
	apikeyService "github.com/julianstoll1/access-dashboard/internal/apikey/service"
	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
)

// apiKeyUseCase implements the APIKeyUseCase interface.
type apiKeyUseCase struct {
	apiKeyRepo APIKeyRepository
	keyService apikeyService.KeyService
	keyCipher  apikeyService.KeyCipher
	auditor    AuditRecorder
}

// Generate creates a new credential for the project.
//
// Validation runs before any store access. The per-project name check is a
// separate read from the insert; the unique index backs it up and the
// repository translates a constraint race into the same conflict error.
// On success one "created" audit entry is appended and the raw secret is
// returned for the only time outside an explicit reveal.
func (a *apiKeyUseCase) Generate(
	ctx context.Context,
	projectID uuid.UUID,
	input *apikeyDomain.GenerateAPIKeyInput,
) (*apikeyDomain.GenerateAPIKeyOutput, error) {
	description := input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	taken, err := a.apiKeyRepo.ExistsWithName(ctx, projectID, input.Name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apikeyDomain.ErrAPIKeyNameTaken
	}

	apiKey, plainKey, err := a.buildCredential(projectID, input.Name, description)
	if err != nil {
		return nil, err
	}

	if err := a.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return nil, err
	}

	a.auditor.Record(ctx, projectID, auditDomain.EntityAPIKey, &apiKey.ID, auditDomain.ActionCreated, map[string]any{
		"name": apiKey.Name,
	})

	return &apikeyDomain.GenerateAPIKeyOutput{PlainKey: plainKey, Key: apiKey}, nil
}

// Rotate replaces an active credential with a brand-new record under the same
// logical name.
//
// Only active credentials can be rotated. The replacement is create-new then
// delete-old as two separate store operations: a crash between them leaves
// two usable credentials for a brief window, which fails toward availability
// rather than security. On success two audit entries are appended, "created"
// for the new credential and "deleted" for the old one with
// metadata.replaced_by pointing at the new id.
func (a *apiKeyUseCase) Rotate(
	ctx context.Context,
	projectID, keyID uuid.UUID,
	input *apikeyDomain.GenerateAPIKeyInput,
) (*apikeyDomain.GenerateAPIKeyOutput, error) {
	current, err := a.apiKeyRepo.Get(ctx, projectID, keyID)
	if err != nil {
		return nil, err
	}

	if current.Status != apikeyDomain.StatusActive {
		return nil, apikeyDomain.ErrAPIKeyNotActive
	}

	description := input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// The credential being replaced keeps its name claim until deleted
	taken, err := a.apiKeyRepo.ExistsWithName(ctx, projectID, input.Name, &keyID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apikeyDomain.ErrAPIKeyNameTaken
	}

	apiKey, plainKey, err := a.buildCredential(projectID, input.Name, description)
	if err != nil {
		return nil, err
	}

	if err := a.apiKeyRepo.Create(ctx, apiKey); err != nil {
		return nil, err
	}

	if err := a.apiKeyRepo.Delete(ctx, projectID, keyID); err != nil {
		return nil, apperrors.Wrap(err, "failed to delete rotated api key")
	}

	a.auditor.Record(ctx, projectID, auditDomain.EntityAPIKey, &apiKey.ID, auditDomain.ActionCreated, map[string]any{
		"name": apiKey.Name,
	})
	a.auditor.Record(ctx, projectID, auditDomain.EntityAPIKey, &keyID, auditDomain.ActionDeleted, map[string]any{
		"name":        current.Name,
		"replaced_by": apiKey.ID.String(),
	})

	return &apikeyDomain.GenerateAPIKeyOutput{PlainKey: plainKey, Key: apiKey}, nil
}

// Reveal decrypts and returns the credential's raw secret.
// The round trip through the encrypt/decrypt pair is lossless: the value
// returned is exactly what the most recent generate/rotate produced.
func (a *apiKeyUseCase) Reveal(
	ctx context.Context,
	projectID, keyID uuid.UUID,
) (*apikeyDomain.RevealAPIKeyOutput, error) {
	apiKey, err := a.apiKeyRepo.Get(ctx, projectID, keyID)
	if err != nil {
		return nil, err
	}

	plainKey, err := a.keyCipher.Decrypt(apiKey.KeyEncrypted, projectID)
	if err != nil {
		return nil, err
	}

	return &apikeyDomain.RevealAPIKeyOutput{
		ID:       apiKey.ID,
		Name:     apiKey.Name,
		PlainKey: plainKey,
	}, nil
}

// Authenticate verifies a raw secret against the stored hash and tracks the
// use by incrementing usage_count and stamping last_used_at in one atomic
// update. Unknown, revoked and deleted credentials all produce the same
// ErrInvalidAPIKey so a caller cannot probe which keys exist.
func (a *apiKeyUseCase) Authenticate(
	ctx context.Context,
	plainKey string,
) (*apikeyDomain.AuthenticateOutput, error) {
	keyHash := a.keyService.HashKey(plainKey)

	apiKey, err := a.apiKeyRepo.TouchByHash(ctx, keyHash, time.Now().UTC())
	if err != nil {
		if apperrors.Is(err, apikeyDomain.ErrAPIKeyNotFound) {
			return nil, apikeyDomain.ErrInvalidAPIKey
		}
		return nil, err
	}

	return &apikeyDomain.AuthenticateOutput{
		KeyID:     apiKey.ID,
		ProjectID: apiKey.ProjectID,
	}, nil
}

// Get retrieves a credential by project and id.
func (a *apiKeyUseCase) Get(
	ctx context.Context,
	projectID, keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	return a.apiKeyRepo.Get(ctx, projectID, keyID)
}

// List retrieves all credentials for a project.
func (a *apiKeyUseCase) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	return a.apiKeyRepo.List(ctx, projectID)
}

// Delete removes a credential and appends a "deleted" audit entry.
func (a *apiKeyUseCase) Delete(ctx context.Context, projectID, keyID uuid.UUID) error {
	apiKey, err := a.apiKeyRepo.Get(ctx, projectID, keyID)
	if err != nil {
		return err
	}

	if err := a.apiKeyRepo.Delete(ctx, projectID, keyID); err != nil {
		return err
	}

	a.auditor.Record(ctx, projectID, auditDomain.EntityAPIKey, &keyID, auditDomain.ActionDeleted, map[string]any{
		"name": apiKey.Name,
	})

	return nil
}

// buildCredential assembles a fresh credential with both secret
// representations populated. Returns the record and the raw secret.
func (a *apiKeyUseCase) buildCredential(
	projectID uuid.UUID,
	name string,
	description *string,
) (*apikeyDomain.APIKey, string, error) {
	plainKey, keyHash, err := a.keyService.GenerateKey()
	if err != nil {
		return nil, "", err
	}

	keyEncrypted, err := a.keyCipher.Encrypt(plainKey, projectID)
	if err != nil {
		return nil, "", err
	}

	apiKey := &apikeyDomain.APIKey{
		ID:           uuid.Must(uuid.NewV7()),
		ProjectID:    projectID,
		Name:         name,
		Description:  description,
		Status:       apikeyDomain.StatusActive,
		UsageCount:   0,
		KeyHash:      keyHash,
		KeyEncrypted: keyEncrypted,
		CreatedAt:    time.Now().UTC(),
	}

	return apiKey, plainKey, nil
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with the provided dependencies.
func NewAPIKeyUseCase(
	apiKeyRepo APIKeyRepository,
	keyService apikeyService.KeyService,
	keyCipher apikeyService.KeyCipher,
	auditor AuditRecorder,
) APIKeyUseCase {
	return &apiKeyUseCase{
		apiKeyRepo: apiKeyRepo,
		keyService: keyService,
		keyCipher:  keyCipher,
		auditor:    auditor,
	}
}
