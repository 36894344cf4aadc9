package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
)

// auditLogUseCase implements AuditLogUseCase.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	logger       *slog.Logger
}

// Record appends an audit log entry for a completed mutation. Generates a
// UUIDv7 identifier and UTC timestamp. Store failures are logged and swallowed
// so the caller's mutation result is independent of the audit write.
func (a *auditLogUseCase) Record(
	ctx context.Context,
	projectID uuid.UUID,
	entityType auditDomain.EntityType,
	entityID *uuid.UUID,
	action auditDomain.Action,
	metadata map[string]any,
) {
	auditLog := &auditDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		ProjectID:  projectID,
		UserID:     auditDomain.UserIDFromContext(ctx),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		a.logger.Error("failed to append audit log entry",
			slog.String("project_id", projectID.String()),
			slog.String("entity_type", string(entityType)),
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
	}
}

// List retrieves audit logs for a project ordered by created_at descending
// (newest first). Returns empty slice if no entries exist.
func (a *auditLogUseCase) List(
	ctx context.Context,
	projectID uuid.UUID,
	limit int,
) ([]*auditDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, projectID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository, logger *slog.Logger) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		logger:       logger,
	}
}
