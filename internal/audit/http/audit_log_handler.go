// Package http provides HTTP handlers for the audit trail.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/audit/http/dto"
	auditUseCase "github.com/julianstoll1/access-dashboard/internal/audit/usecase"
	"github.com/julianstoll1/access-dashboard/internal/httputil"
)

// maxAuditLogLimit caps how many entries a single listing can return.
const maxAuditLogLimit = 500

// AuditLogHandler handles HTTP requests for audit trail reads.
// The trail is append-only; there are no mutation endpoints.
type AuditLogHandler struct {
	auditLogUseCase auditUseCase.AuditLogUseCase
	defaultLimit    int
	logger          *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler with required dependencies.
func NewAuditLogHandler(
	auditLogUseCase auditUseCase.AuditLogUseCase,
	defaultLimit int,
	logger *slog.Logger,
) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUseCase: auditLogUseCase,
		defaultLimit:    defaultLimit,
		logger:          logger,
	}
}

// ListHandler retrieves a project's audit trail, newest first.
// GET /v1/projects/:project_id/audit-logs
// Returns 200 OK.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid project ID format: must be a valid UUID"),
			h.logger)
		return
	}

	limit, err := httputil.ParseLimit(c, h.defaultLimit, maxAuditLogLimit)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	auditLogs, err := h.auditLogUseCase.List(c.Request.Context(), projectID, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditLogsToListResponse(auditLogs))
}
