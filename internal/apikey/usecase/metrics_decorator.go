package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/julianstoll1/access-dashboard/internal/apikey/domain"
	"github.com/julianstoll1/access-dashboard/internal/metrics"
)

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *apiKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "apikey", operation, status)
	a.metrics.RecordDuration(ctx, "apikey", operation, time.Since(start), status)
}

// Generate records metrics for credential generation operations.
func (a *apiKeyUseCaseWithMetrics) Generate(
	ctx context.Context,
	projectID uuid.UUID,
	input *apikeyDomain.GenerateAPIKeyInput,
) (*apikeyDomain.GenerateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Generate(ctx, projectID, input)
	a.record(ctx, "api_key_generate", start, err)
	return output, err
}

// Rotate records metrics for credential rotation operations.
func (a *apiKeyUseCaseWithMetrics) Rotate(
	ctx context.Context,
	projectID, keyID uuid.UUID,
	input *apikeyDomain.GenerateAPIKeyInput,
) (*apikeyDomain.GenerateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Rotate(ctx, projectID, keyID, input)
	a.record(ctx, "api_key_rotate", start, err)
	return output, err
}

// Reveal records metrics for credential reveal operations.
func (a *apiKeyUseCaseWithMetrics) Reveal(
	ctx context.Context,
	projectID, keyID uuid.UUID,
) (*apikeyDomain.RevealAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Reveal(ctx, projectID, keyID)
	a.record(ctx, "api_key_reveal", start, err)
	return output, err
}

// Authenticate records metrics for credential authentication operations.
func (a *apiKeyUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	plainKey string,
) (*apikeyDomain.AuthenticateOutput, error) {
	start := time.Now()
	output, err := a.next.Authenticate(ctx, plainKey)
	a.record(ctx, "api_key_authenticate", start, err)
	return output, err
}

// Get records metrics for credential read operations.
func (a *apiKeyUseCaseWithMetrics) Get(
	ctx context.Context,
	projectID, keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Get(ctx, projectID, keyID)
	a.record(ctx, "api_key_get", start, err)
	return apiKey, err
}

// List records metrics for credential list operations.
func (a *apiKeyUseCaseWithMetrics) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKeys, err := a.next.List(ctx, projectID)
	a.record(ctx, "api_key_list", start, err)
	return apiKeys, err
}

// Delete records metrics for credential deletion operations.
func (a *apiKeyUseCaseWithMetrics) Delete(ctx context.Context, projectID, keyID uuid.UUID) error {
	start := time.Now()
	err := a.next.Delete(ctx, projectID, keyID)
	a.record(ctx, "api_key_delete", start, err)
	return err
}
