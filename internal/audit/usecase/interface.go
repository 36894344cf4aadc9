// Package usecase implements the append-only audit logger.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
)

// AuditLogRepository defines persistence operations for audit log entries.
// Implementations only ever append and read; entries are never updated or deleted.
type AuditLogRepository interface {
	// Create appends a new audit log entry.
	Create(ctx context.Context, auditLog *auditDomain.AuditLog) error

	// List retrieves entries for a project ordered by created_at descending.
	List(ctx context.Context, projectID uuid.UUID, limit int) ([]*auditDomain.AuditLog, error)
}

// AuditLogUseCase records mutations and lists the trail.
type AuditLogUseCase interface {
	// Record appends one entry for a successful mutation. Append failures are
	// written to the operational log and swallowed: the primary mutation's
	// success never depends on the audit write. The acting operator id is
	// taken from the context when present.
	Record(
		ctx context.Context,
		projectID uuid.UUID,
		entityType auditDomain.EntityType,
		entityID *uuid.UUID,
		action auditDomain.Action,
		metadata map[string]any,
	)

	// List retrieves entries for a project, newest first.
	List(ctx context.Context, projectID uuid.UUID, limit int) ([]*auditDomain.AuditLog, error)
}
