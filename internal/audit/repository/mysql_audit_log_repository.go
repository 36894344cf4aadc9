package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
)

// MySQLAuditLogRepository implements AuditLog persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// Create inserts a new AuditLog into the MySQL database using BINARY(16) for UUIDs.
// Handles nil metadata and nil user/entity ids as database NULL.
func (m *MySQLAuditLogRepository) Create(
	ctx context.Context,
	auditLog *auditDomain.AuditLog,
) error {
	querier := database.GetTx(ctx, m.db)

	var metadataJSON []byte
	var err error

	// Handle nil metadata as NULL
	if auditLog.Metadata != nil {
		metadataJSON, err = json.Marshal(auditLog.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log metadata")
		}
	}

	id, err := auditLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log id")
	}

	projectID, err := auditLog.ProjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log project_id")
	}

	var userID []byte
	if auditLog.UserID != nil {
		userID, err = auditLog.UserID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log user_id")
		}
	}

	var entityID []byte
	if auditLog.EntityID != nil {
		entityID, err = auditLog.EntityID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log entity_id")
		}
	}

	query := `INSERT INTO audit_logs (id, project_id, user_id, entity_type, entity_id, action, metadata, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		projectID,
		userID,
		string(auditLog.EntityType),
		entityID,
		string(auditLog.Action),
		metadataJSON,
		auditLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs for a project ordered by created_at descending
// (newest first). Returns empty slice if no audit logs found. Handles NULL
// metadata gracefully by returning nil map for those entries. UUIDs are
// stored as BINARY(16) and must be unmarshaled.
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	projectID uuid.UUID,
	limit int,
) ([]*auditDomain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal project id")
	}

	query := `SELECT id, project_id, user_id, entity_type, entity_id, action, metadata, created_at
			  FROM audit_logs
			  WHERE project_id = ?
			  ORDER BY created_at DESC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, projectIDBinary, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	auditLogs := make([]*auditDomain.AuditLog, 0)
	for rows.Next() {
		var auditLog auditDomain.AuditLog
		var idBinary, projectIDBinary, userIDBinary, entityIDBinary []byte
		var metadataJSON []byte
		var entityType, action string

		err := rows.Scan(
			&idBinary,
			&projectIDBinary,
			&userIDBinary,
			&entityType,
			&entityIDBinary,
			&action,
			&metadataJSON,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		// Unmarshal UUIDs from BINARY(16)
		if err := auditLog.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log id")
		}

		if err := auditLog.ProjectID.UnmarshalBinary(projectIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log project_id")
		}

		if userIDBinary != nil {
			var userID uuid.UUID
			if err := userID.UnmarshalBinary(userIDBinary); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log user_id")
			}
			auditLog.UserID = &userID
		}

		if entityIDBinary != nil {
			var entityID uuid.UUID
			if err := entityID.UnmarshalBinary(entityIDBinary); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log entity_id")
			}
			auditLog.EntityID = &entityID
		}

		auditLog.EntityType = auditDomain.EntityType(entityType)
		auditLog.Action = auditDomain.Action(action)

		// Unmarshal metadata if not NULL
		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &auditLog.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log metadata")
			}
		}

		auditLogs = append(auditLogs, &auditLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}
