// Package dto provides data transfer objects for audit log responses.
package dto

import (
	"time"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
)

// AuditLogResponse represents one audit trail entry in API responses.
type AuditLogResponse struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"project_id"`
	UserID     *string        `json:"user_id,omitempty"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id,omitempty"`
	Action     string         `json:"action"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// MapAuditLogToResponse converts a domain audit entry to an API response.
func MapAuditLogToResponse(auditLog *auditDomain.AuditLog) AuditLogResponse {
	response := AuditLogResponse{
		ID:         auditLog.ID.String(),
		ProjectID:  auditLog.ProjectID.String(),
		EntityType: string(auditLog.EntityType),
		Action:     string(auditLog.Action),
		Metadata:   auditLog.Metadata,
		CreatedAt:  auditLog.CreatedAt,
	}

	if auditLog.UserID != nil {
		userID := auditLog.UserID.String()
		response.UserID = &userID
	}
	if auditLog.EntityID != nil {
		entityID := auditLog.EntityID.String()
		response.EntityID = &entityID
	}

	return response
}

// ListAuditLogsResponse wraps the audit entry collection for list endpoints.
type ListAuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"audit_logs"`
}

// MapAuditLogsToListResponse converts domain audit entries to a list response.
func MapAuditLogsToListResponse(auditLogs []*auditDomain.AuditLog) ListAuditLogsResponse {
	responses := make([]AuditLogResponse, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		responses = append(responses, MapAuditLogToResponse(auditLog))
	}
	return ListAuditLogsResponse{AuditLogs: responses}
}
