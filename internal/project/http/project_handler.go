// Package http provides HTTP handlers for project management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/httputil"
	"github.com/julianstoll1/access-dashboard/internal/project/http/dto"
	projectUseCase "github.com/julianstoll1/access-dashboard/internal/project/usecase"
)

// ProjectHandler handles HTTP requests for project management.
type ProjectHandler struct {
	projectUseCase projectUseCase.ProjectUseCase
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler with required dependencies.
func NewProjectHandler(
	projectUseCase projectUseCase.ProjectUseCase,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectUseCase: projectUseCase,
		logger:         logger,
	}
}

// CreateHandler adds a new project.
// POST /v1/projects
// Returns 201 Created.
func (h *ProjectHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateProjectRequest

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
	project, err := h.projectUseCase.Create(c.Request.Context(), req.ToDomainInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	c.JSON(http.StatusCreated, dto.MapProjectToResponse(project))
}

// GetHandler retrieves a single project.
// GET /v1/projects/:project_id
// Returns 200 OK.
func (h *ProjectHandler) GetHandler(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid project ID format: must be a valid UUID"),
			h.logger)
		return
	}

	project, err := h.projectUseCase.Get(c.Request.Context(), projectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProjectToResponse(project))
}

// ListHandler retrieves all projects.
// GET /v1/projects
// Returns 200 OK.
func (h *ProjectHandler) ListHandler(c *gin.Context) {
	projects, err := h.projectUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProjectsToListResponse(projects))
}
