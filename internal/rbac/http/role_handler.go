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

// RoleHandler handles HTTP requests for role management.
type RoleHandler struct {
	roleUseCase rbacUseCase.RoleUseCase
	logger      *slog.Logger
}

// NewRoleHandler creates a new role handler with required dependencies.
func NewRoleHandler(
	roleUseCase rbacUseCase.RoleUseCase,
	logger *slog.Logger,
) *RoleHandler {
	return &RoleHandler{
		roleUseCase: roleUseCase,
		logger:      logger,
	}
}

// CreateHandler adds a new role with its permission links.
// POST /v1/projects/:project_id/roles
// Returns 201 Created.
func (h *RoleHandler) CreateHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	var req dto.RoleRequest

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
	role, err := h.roleUseCase.Create(c.Request.Context(), projectID, req.ToDomainInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	c.JSON(http.StatusCreated, dto.MapRoleToResponse(role))
}

// GetHandler retrieves a single role with its permission ids and user count.
// GET /v1/projects/:project_id/roles/:id
// Returns 200 OK.
func (h *RoleHandler) GetHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	role, err := h.roleUseCase.Get(c.Request.Context(), projectID, roleID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRoleToResponse(role))
}

// ListHandler retrieves all roles of a project.
// GET /v1/projects/:project_id/roles
// Returns 200 OK.
func (h *RoleHandler) ListHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	roles, err := h.roleUseCase.List(c.Request.Context(), projectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRolesToListResponse(roles))
}

// UpdateHandler modifies a role and replaces its entire permission link set.
// PUT /v1/projects/:project_id/roles/:id
// Returns 200 OK.
func (h *RoleHandler) UpdateHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	var req dto.RoleRequest

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
	role, err := h.roleUseCase.Update(c.Request.Context(), projectID, roleID, req.ToDomainInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	c.JSON(http.StatusOK, dto.MapRoleToResponse(role))
}

// DeleteHandler removes a role. System roles are refused.
// DELETE /v1/projects/:project_id/roles/:id
// Returns 204 No Content.
func (h *RoleHandler) DeleteHandler(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	if err := h.roleUseCase.Delete(c.Request.Context(), projectID, roleID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// parseProjectID extracts and validates the project id URL parameter.
func (h *RoleHandler) parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid project ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return projectID, true
}

// parseRoleID extracts and validates the role id URL parameter.
func (h *RoleHandler) parseRoleID(c *gin.Context) (uuid.UUID, bool) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid role ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return roleID, true
}
