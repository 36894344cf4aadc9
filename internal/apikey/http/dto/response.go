package dto

import (
	"time"

	apikeyDomain "github.com/julianstoll1/access-dashboard/internal/apikey/domain"
)

// APIKeyResponse represents a credential in API responses.
// Neither secret representation is ever included here.
type APIKeyResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	UsageCount  int64      `json:"usage_count"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// MapAPIKeyToResponse converts a domain credential to an API response.
func MapAPIKeyToResponse(apiKey *apikeyDomain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:          apiKey.ID.String(),
		ProjectID:   apiKey.ProjectID.String(),
		Name:        apiKey.Name,
		Description: apiKey.Description,
		Status:      string(apiKey.Status),
		UsageCount:  apiKey.UsageCount,
		LastUsedAt:  apiKey.LastUsedAt,
		CreatedAt:   apiKey.CreatedAt,
		UpdatedAt:   apiKey.UpdatedAt,
	}
}

// GenerateAPIKeyResponse contains the result of generating or rotating a credential.
// SECURITY: PlainKey is returned exactly once; afterwards the secret is only
// recoverable through an explicit reveal.
type GenerateAPIKeyResponse struct {
	Key      APIKeyResponse `json:"key"`
	PlainKey string         `json:"plain_key"`
}

// MapGenerateOutputToResponse converts a generate/rotate result to an API response.
func MapGenerateOutputToResponse(output *apikeyDomain.GenerateAPIKeyOutput) GenerateAPIKeyResponse {
	return GenerateAPIKeyResponse{
		Key:      MapAPIKeyToResponse(output.Key),
		PlainKey: output.PlainKey,
	}
}

// RevealAPIKeyResponse contains a credential's decrypted raw secret.
// SECURITY: transmit over HTTPS only.
type RevealAPIKeyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PlainKey string `json:"plain_key"`
}

// MapRevealOutputToResponse converts a reveal result to an API response.
func MapRevealOutputToResponse(output *apikeyDomain.RevealAPIKeyOutput) RevealAPIKeyResponse {
	return RevealAPIKeyResponse{
		ID:       output.ID.String(),
		Name:     output.Name,
		PlainKey: output.PlainKey,
	}
}

// ListAPIKeysResponse wraps the credential collection for list endpoints.
type ListAPIKeysResponse struct {
	APIKeys []APIKeyResponse `json:"api_keys"`
}

// MapAPIKeysToListResponse converts domain credentials to a list response.
func MapAPIKeysToListResponse(apiKeys []*apikeyDomain.APIKey) ListAPIKeysResponse {
	responses := make([]APIKeyResponse, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		responses = append(responses, MapAPIKeyToResponse(apiKey))
	}
	return ListAPIKeysResponse{APIKeys: responses}
}

// WhoamiResponse identifies the credential that authenticated a request.
type WhoamiResponse struct {
	KeyID     string `json:"key_id"`
	ProjectID string `json:"project_id"`
}

// MapAuthenticateOutputToResponse converts an authentication result to an API response.
func MapAuthenticateOutputToResponse(output *apikeyDomain.AuthenticateOutput) WhoamiResponse {
	return WhoamiResponse{
		KeyID:     output.KeyID.String(),
		ProjectID: output.ProjectID.String(),
	}
}
