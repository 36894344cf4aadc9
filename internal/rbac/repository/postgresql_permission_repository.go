// Package repository provides PostgreSQL and MySQL persistence for the access graph.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// PostgreSQLPermissionRepository implements Permission persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLPermissionRepository struct {
	db *sql.DB
}

const postgresPermissionColumns = `id, project_id, name, slug, description, enabled, risk_level, usage_count, last_used_at, is_system, created_at, updated_at`

// Create inserts a new Permission. Unique violations on the per-project name
// or slug indexes surface as ErrPermissionNameTaken or ErrPermissionSlugTaken.
func (p *PostgreSQLPermissionRepository) Create(ctx context.Context, permission *rbacDomain.Permission) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO permissions (` + postgresPermissionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := querier.ExecContext(
		ctx,
		query,
		permission.ID,
		permission.ProjectID,
		permission.Name,
		permission.Slug,
		permission.Description,
		permission.Enabled,
		string(permission.RiskLevel),
		permission.UsageCount,
		permission.LastUsedAt,
		permission.IsSystem,
		permission.CreatedAt,
		permission.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return permissionConflictError(err)
		}
		return apperrors.Wrap(err, "failed to create permission")
	}

	return nil
}

// Get retrieves a Permission by project and id. Returns ErrPermissionNotFound
// if no row exists for the given id/project pair.
func (p *PostgreSQLPermissionRepository) Get(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
) (*rbacDomain.Permission, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresPermissionColumns + `
			  FROM permissions
			  WHERE project_id = $1 AND id = $2`

	var permission rbacDomain.Permission
	var riskLevel string
	err := querier.QueryRowContext(ctx, query, projectID, permissionID).Scan(
		&permission.ID,
		&permission.ProjectID,
		&permission.Name,
		&permission.Slug,
		&permission.Description,
		&permission.Enabled,
		&riskLevel,
		&permission.UsageCount,
		&permission.LastUsedAt,
		&permission.IsSystem,
		&permission.CreatedAt,
		&permission.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, rbacDomain.ErrPermissionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission")
	}

	permission.RiskLevel = rbacDomain.RiskLevel(riskLevel)

	return &permission, nil
}

// ExistsWithName reports whether the project already has a permission with the
// given name, comparing case-insensitively. excludeID skips the row being updated.
func (p *PostgreSQLPermissionRepository) ExistsWithName(
	ctx context.Context,
	projectID uuid.UUID,
	name string,
	excludeID *uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				  SELECT 1 FROM permissions
				  WHERE project_id = $1 AND LOWER(name) = LOWER($2) AND ($3::uuid IS NULL OR id != $3)
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, projectID, name, excludeID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check permission name")
	}

	return exists, nil
}

// ExistsWithSlug reports whether the project already has a permission with the
// given slug. excludeID skips the row being updated.
func (p *PostgreSQLPermissionRepository) ExistsWithSlug(
	ctx context.Context,
	projectID uuid.UUID,
	slug string,
	excludeID *uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				  SELECT 1 FROM permissions
				  WHERE project_id = $1 AND slug = $2 AND ($3::uuid IS NULL OR id != $3)
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, projectID, slug, excludeID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check permission slug")
	}

	return exists, nil
}

// Update modifies an existing Permission. Returns ErrPermissionNotFound if no
// row was updated; unique violations surface as the field-specific conflict
// sentinel.
func (p *PostgreSQLPermissionRepository) Update(ctx context.Context, permission *rbacDomain.Permission) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE permissions
			  SET name = $1,
			  	  slug = $2,
				  description = $3,
				  enabled = $4,
				  risk_level = $5,
				  updated_at = $6
			  WHERE project_id = $7 AND id = $8`

	result, err := querier.ExecContext(
		ctx,
		query,
		permission.Name,
		permission.Slug,
		permission.Description,
		permission.Enabled,
		string(permission.RiskLevel),
		permission.UpdatedAt,
		permission.ProjectID,
		permission.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return permissionConflictError(err)
		}
		return apperrors.Wrap(err, "failed to update permission")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return rbacDomain.ErrPermissionNotFound
	}

	return nil
}

// SetEnabled writes only the enabled flag and updated_at. Returns
// ErrPermissionNotFound if no row matched.
func (p *PostgreSQLPermissionRepository) SetEnabled(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
	enabled bool,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE permissions
			  SET enabled = $1, updated_at = $2
			  WHERE project_id = $3 AND id = $4`

	result, err := querier.ExecContext(ctx, query, enabled, updatedAt, projectID, permissionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to set permission enabled")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return rbacDomain.ErrPermissionNotFound
	}

	return nil
}

// List retrieves all permissions for a project ordered by created_at ascending.
// Returns empty slice if the project has no permissions.
func (p *PostgreSQLPermissionRepository) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*rbacDomain.Permission, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresPermissionColumns + `
			  FROM permissions
			  WHERE project_id = $1
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permissions")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	permissions := make([]*rbacDomain.Permission, 0)
	for rows.Next() {
		var permission rbacDomain.Permission
		var riskLevel string

		err := rows.Scan(
			&permission.ID,
			&permission.ProjectID,
			&permission.Name,
			&permission.Slug,
			&permission.Description,
			&permission.Enabled,
			&riskLevel,
			&permission.UsageCount,
			&permission.LastUsedAt,
			&permission.IsSystem,
			&permission.CreatedAt,
			&permission.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission")
		}

		permission.RiskLevel = rbacDomain.RiskLevel(riskLevel)
		permissions = append(permissions, &permission)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permissions")
	}

	return permissions, nil
}

// Delete removes a Permission by project and id. The database-level foreign
// key cascade cleans up any role links that reference it. Returns
// ErrPermissionNotFound if no row was deleted.
func (p *PostgreSQLPermissionRepository) Delete(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM permissions WHERE project_id = $1 AND id = $2`

	result, err := querier.ExecContext(ctx, query, projectID, permissionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete permission")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return rbacDomain.ErrPermissionNotFound
	}

	return nil
}

// CountByIDs counts how many of the given permission ids exist within the
// project. Used to validate a role's permission selection.
func (p *PostgreSQLPermissionRepository) CountByIDs(
	ctx context.Context,
	projectID uuid.UUID,
	permissionIDs []uuid.UUID,
) (int, error) {
	if len(permissionIDs) == 0 {
		return 0, nil
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM permissions WHERE project_id = $1 AND id = ANY($2)`

	var count int
	if err := querier.QueryRowContext(ctx, query, projectID, pq.Array(permissionIDs)).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count permissions")
	}

	return count, nil
}

// isPostgreSQLUniqueViolation checks if the error is a unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// permissionConflictError picks the field-specific conflict sentinel for a
// duplicate permission row, keying off the index named in the driver error.
// Both drivers include the index name in their duplicate messages.
func permissionConflictError(err error) error {
	if strings.Contains(err.Error(), "permissions_project_id_slug_key") {
		return rbacDomain.ErrPermissionSlugTaken
	}
	return rbacDomain.ErrPermissionNameTaken
}

// NewPostgreSQLPermissionRepository creates a new PostgreSQL Permission repository.
func NewPostgreSQLPermissionRepository(db *sql.DB) *PostgreSQLPermissionRepository {
	return &PostgreSQLPermissionRepository{db: db}
}
