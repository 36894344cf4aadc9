// Package http provides HTTP handlers for API key credential management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/apikey/http/dto"
	apikeyUseCase "github.com/julianstoll1/access-dashboard/internal/apikey/usecase"
	"github.com/julianstoll1/access-dashboard/internal/httputil"
)

// APIKeyHandler handles HTTP requests for credential lifecycle operations.
type APIKeyHandler struct {
	apiKeyUseCase apikeyUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler with required dependencies.
func NewAPIKeyHandler(
	apiKeyUseCase apikeyUseCase.APIKeyUseCase,
	logger *slog.Logger,
) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// GenerateHandler creates a new credential and returns the raw secret once.
// POST /v1/projects/:project_id/api-keys
// Returns 201 Created with credential metadata and the plain key.
func (h *APIKeyHandler) GenerateHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	var req dto.GenerateAPIKeyRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Call use case
	output, err := h.apiKeyUseCase.Generate(c.Request.Context(), projectID, req.ToDomainInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	c.JSON(http.StatusCreated, dto.MapGenerateOutputToResponse(output))
}

// RotateHandler replaces a credential with a brand-new one under the same name.
// POST /v1/projects/:project_id/api-keys/:id/rotate
// Returns 200 OK with the replacement credential and its plain key.
func (h *APIKeyHandler) RotateHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	keyID, ok := h.parseKeyID(c)
	if !ok {
		return
	}

	var req dto.GenerateAPIKeyRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Call use case
	output, err := h.apiKeyUseCase.Rotate(c.Request.Context(), projectID, keyID, req.ToDomainInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	c.JSON(http.StatusOK, dto.MapGenerateOutputToResponse(output))
}

// RevealHandler decrypts and returns a credential's raw secret on demand.
// POST /v1/projects/:project_id/api-keys/:id/reveal
// Returns 200 OK with the plain key.
func (h *APIKeyHandler) RevealHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	keyID, ok := h.parseKeyID(c)
	if !ok {
		return
	}

	output, err := h.apiKeyUseCase.Reveal(c.Request.Context(), projectID, keyID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRevealOutputToResponse(output))
}

// GetHandler retrieves a single credential's metadata.
// GET /v1/projects/:project_id/api-keys/:id
// Returns 200 OK.
func (h *APIKeyHandler) GetHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	keyID, ok := h.parseKeyID(c)
	if !ok {
		return
	}

	apiKey, err := h.apiKeyUseCase.Get(c.Request.Context(), projectID, keyID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeyToResponse(apiKey))
}

// ListHandler retrieves all credentials of a project.
// GET /v1/projects/:project_id/api-keys
// Returns 200 OK.
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	apiKeys, err := h.apiKeyUseCase.List(c.Request.Context(), projectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToListResponse(apiKeys))
}

// DeleteHandler removes a credential.
// DELETE /v1/projects/:project_id/api-keys/:id
// Returns 204 No Content.
func (h *APIKeyHandler) DeleteHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	keyID, ok := h.parseKeyID(c)
	if !ok {
		return
	}

	if err := h.apiKeyUseCase.Delete(c.Request.Context(), projectID, keyID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// WhoamiHandler authenticates the bearer credential and reports its identity.
// GET /v1/auth/whoami
// A missing or malformed Authorization header is a validation error; a
// well-formed but unknown secret is an authentication failure.
func (h *APIKeyHandler) WhoamiHandler(c *gin.Context) {
	plainKey, err := extractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.apiKeyUseCase.Authenticate(c.Request.Context(), plainKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthenticateOutputToResponse(output))
}

// extractBearerToken parses an "Authorization: Bearer <secret>" header.
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("malformed Authorization header: expected 'Bearer <api-key>'")
	}

	return strings.TrimSpace(parts[1]), nil
}

// parseProjectID extracts and validates the project id URL parameter.
func (h *APIKeyHandler) parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid project ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return projectID, true
}

// parseKeyID extracts and validates the credential id URL parameter.
func (h *APIKeyHandler) parseKeyID(c *gin.Context) (uuid.UUID, bool) {
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid API key ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return keyID, true
}
