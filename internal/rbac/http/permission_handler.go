// Package http provides HTTP handlers for the access graph.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/httputil"
	"github.com/julianstoll1/access-dashboard/internal/rbac/http/dto"
	rbacUseCase "github.com/julianstoll1/access-dashboard/internal/rbac/usecase"
)

// PermissionHandler handles HTTP requests for permission management.
type PermissionHandler struct {
	permissionUseCase rbacUseCase.PermissionUseCase
	logger            *slog.Logger
}

// NewPermissionHandler creates a new permission handler with required dependencies.
func NewPermissionHandler(
	permissionUseCase rbacUseCase.PermissionUseCase,
	logger *slog.Logger,
) *PermissionHandler {
	return &PermissionHandler{
		permissionUseCase: permissionUseCase,
		logger:            logger,
	}
}

// CreateHandler adds a new permission to the project.
// POST /v1/projects/:project_id/permissions
// Returns 201 Created.
func (h *PermissionHandler) CreateHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	var req dto.PermissionRequest

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
	permission, err := h.permissionUseCase.Create(c.Request.Context(), projectID, req.ToDomainInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	c.JSON(http.StatusCreated, dto.MapPermissionToResponse(permission))
}

// GetHandler retrieves a single permission.
// GET /v1/projects/:project_id/permissions/:id
// Returns 200 OK.
func (h *PermissionHandler) GetHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	permissionID, ok := h.parsePermissionID(c)
	if !ok {
		return
	}

	permission, err := h.permissionUseCase.Get(c.Request.Context(), projectID, permissionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPermissionToResponse(permission))
}

// ListHandler retrieves all permissions of a project.
// GET /v1/projects/:project_id/permissions
// Returns 200 OK.
func (h *PermissionHandler) ListHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	permissions, err := h.permissionUseCase.List(c.Request.Context(), projectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPermissionsToListResponse(permissions))
}

// UpdateHandler modifies a permission's caller-editable fields.
// PUT /v1/projects/:project_id/permissions/:id
// Returns 200 OK.
func (h *PermissionHandler) UpdateHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	permissionID, ok := h.parsePermissionID(c)
	if !ok {
		return
	}

	var req dto.PermissionRequest

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
	permission, err := h.permissionUseCase.Update(c.Request.Context(), projectID, permissionID, req.ToDomainInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	c.JSON(http.StatusOK, dto.MapPermissionToResponse(permission))
}

// ToggleHandler flips only the enabled flag of a permission.
// POST /v1/projects/:project_id/permissions/:id/toggle
// Returns 200 OK.
func (h *PermissionHandler) ToggleHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	permissionID, ok := h.parsePermissionID(c)
	if !ok {
		return
	}

	var req dto.TogglePermissionRequest

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
	permission, err := h.permissionUseCase.Toggle(c.Request.Context(), projectID, permissionID, *req.Enabled)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	c.JSON(http.StatusOK, dto.MapPermissionToResponse(permission))
}

// DeleteHandler removes a permission. System permissions are refused.
// DELETE /v1/projects/:project_id/permissions/:id
// Returns 204 No Content.
func (h *PermissionHandler) DeleteHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	permissionID, ok := h.parsePermissionID(c)
	if !ok {
		return
	}

	if err := h.permissionUseCase.Delete(c.Request.Context(), projectID, permissionID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// parseProjectID extracts and validates the project id URL parameter.
func (h *PermissionHandler) parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid project ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return projectID, true
}

// parsePermissionID extracts and validates the permission id URL parameter.
func (h *PermissionHandler) parsePermissionID(c *gin.Context) (uuid.UUID, bool) {
	permissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid permission ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return permissionID, true
}
