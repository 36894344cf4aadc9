package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// MySQLPermissionRepository implements Permission persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLPermissionRepository struct {
	db *sql.DB
}

const mysqlPermissionColumns = `id, project_id, name, slug, description, enabled, risk_level, usage_count, last_used_at, is_system, created_at, updated_at`

// Create inserts a new Permission using BINARY(16) for UUIDs. Duplicate entry
// errors (MySQL error 1062) surface as ErrPermissionNameTaken or
// ErrPermissionSlugTaken depending on the violated index.
func (m *MySQLPermissionRepository) Create(ctx context.Context, permission *rbacDomain.Permission) error {
	querier := database.GetTx(ctx, m.db)

	id, err := permission.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission id")
	}

	projectID, err := permission.ProjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission project_id")
	}

	query := `INSERT INTO permissions (` + mysqlPermissionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		projectID,
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
		if isMySQLDuplicateEntry(err) {
			return permissionConflictError(err)
		}
		return apperrors.Wrap(err, "failed to create permission")
	}

	return nil
}

// Get retrieves a Permission by project and id. Returns ErrPermissionNotFound
// if no row exists for the given id/project pair.
func (m *MySQLPermissionRepository) Get(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
) (*rbacDomain.Permission, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal project id")
	}

	permissionIDBinary, err := permissionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal permission id")
	}

	query := `SELECT ` + mysqlPermissionColumns + `
			  FROM permissions
			  WHERE project_id = ? AND id = ?`

	row := querier.QueryRowContext(ctx, query, projectIDBinary, permissionIDBinary)
	permission, err := scanMySQLPermissionRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, rbacDomain.ErrPermissionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission")
	}

	return permission, nil
}

// ExistsWithName reports whether the project already has a permission with the
// given name. The utf8mb4 collation makes the comparison case-insensitive.
// excludeID skips the row being updated.
func (m *MySQLPermissionRepository) ExistsWithName(
	ctx context.Context,
	projectID uuid.UUID,
	name string,
	excludeID *uuid.UUID,
) (bool, error) {
	return m.exists(ctx, projectID, "name", name, excludeID)
}

// ExistsWithSlug reports whether the project already has a permission with the
// given slug. excludeID skips the row being updated.
func (m *MySQLPermissionRepository) ExistsWithSlug(
	ctx context.Context,
	projectID uuid.UUID,
	slug string,
	excludeID *uuid.UUID,
) (bool, error) {
	return m.exists(ctx, projectID, "slug", slug, excludeID)
}

func (m *MySQLPermissionRepository) exists(
	ctx context.Context,
	projectID uuid.UUID,
	column, value string,
	excludeID *uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal project id")
	}

	query := `SELECT EXISTS (SELECT 1 FROM permissions WHERE project_id = ? AND ` + column + ` = ?`
	args := []interface{}{projectIDBinary, value}

	if excludeID != nil {
		excludeIDBinary, err := excludeID.MarshalBinary()
		if err != nil {
			return false, apperrors.Wrap(err, "failed to marshal exclude id")
		}
		query += ` AND id != ?`
		args = append(args, excludeIDBinary)
	}
	query += `)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check permission "+column)
	}

	return exists, nil
}

// Update modifies an existing Permission. Returns ErrPermissionNotFound if no
// row matched; duplicate entry errors surface as the field-specific conflict
// sentinel.
func (m *MySQLPermissionRepository) Update(ctx context.Context, permission *rbacDomain.Permission) error {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := permission.ProjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission project_id")
	}

	idBinary, err := permission.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission id")
	}

	// Existence is checked first because MySQL reports zero affected rows for
	// no-op updates as well as missing rows
	var one int
	err = querier.QueryRowContext(
		ctx,
		`SELECT 1 FROM permissions WHERE project_id = ? AND id = ?`,
		projectIDBinary,
		idBinary,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return rbacDomain.ErrPermissionNotFound
		}
		return apperrors.Wrap(err, "failed to check permission existence")
	}

	query := `UPDATE permissions
			  SET name = ?,
			  	  slug = ?,
				  description = ?,
				  enabled = ?,
				  risk_level = ?,
				  updated_at = ?
			  WHERE project_id = ? AND id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		permission.Name,
		permission.Slug,
		permission.Description,
		permission.Enabled,
		string(permission.RiskLevel),
		permission.UpdatedAt,
		projectIDBinary,
		idBinary,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return permissionConflictError(err)
		}
		return apperrors.Wrap(err, "failed to update permission")
	}

	return nil
}

// SetEnabled writes only the enabled flag and updated_at. Returns
// ErrPermissionNotFound if no row matched.
func (m *MySQLPermissionRepository) SetEnabled(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
	enabled bool,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal project id")
	}

	permissionIDBinary, err := permissionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission id")
	}

	// Existence is checked first because MySQL reports zero affected rows when
	// the flag already holds the requested value
	var one int
	err = querier.QueryRowContext(
		ctx,
		`SELECT 1 FROM permissions WHERE project_id = ? AND id = ?`,
		projectIDBinary,
		permissionIDBinary,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return rbacDomain.ErrPermissionNotFound
		}
		return apperrors.Wrap(err, "failed to check permission existence")
	}

	query := `UPDATE permissions
			  SET enabled = ?, updated_at = ?
			  WHERE project_id = ? AND id = ?`

	_, err = querier.ExecContext(ctx, query, enabled, updatedAt, projectIDBinary, permissionIDBinary)
	if err != nil {
		return apperrors.Wrap(err, "failed to set permission enabled")
	}

	return nil
}

// List retrieves all permissions for a project ordered by created_at ascending.
// Returns empty slice if the project has no permissions.
func (m *MySQLPermissionRepository) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*rbacDomain.Permission, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal project id")
	}

	query := `SELECT ` + mysqlPermissionColumns + `
			  FROM permissions
			  WHERE project_id = ?
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, projectIDBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permissions")
	}
	defer func() {
		_ = rows.Close()
	}()

	permissions := make([]*rbacDomain.Permission, 0)
	for rows.Next() {
		permission, err := scanMySQLPermissionRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission")
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permissions")
	}

	return permissions, nil
}

// Delete removes a Permission by project and id. The database-level foreign
// key cascade cleans up any role links that reference it. Returns
// ErrPermissionNotFound if no row was deleted.
func (m *MySQLPermissionRepository) Delete(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal project id")
	}

	permissionIDBinary, err := permissionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission id")
	}

	query := `DELETE FROM permissions WHERE project_id = ? AND id = ?`

	result, err := querier.ExecContext(ctx, query, projectIDBinary, permissionIDBinary)
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
func (m *MySQLPermissionRepository) CountByIDs(
	ctx context.Context,
	projectID uuid.UUID,
	permissionIDs []uuid.UUID,
) (int, error) {
	if len(permissionIDs) == 0 {
		return 0, nil
	}

	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal project id")
	}

	placeholders := make([]string, 0, len(permissionIDs))
	args := []interface{}{projectIDBinary}
	for _, permissionID := range permissionIDs {
		idBinary, err := permissionID.MarshalBinary()
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to marshal permission id")
		}
		placeholders = append(placeholders, "?")
		args = append(args, idBinary)
	}

	query := `SELECT COUNT(*) FROM permissions WHERE project_id = ? AND id IN (` +
		strings.Join(placeholders, ", ") + `)`

	var count int
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count permissions")
	}

	return count, nil
}

// scanMySQLPermissionRow scans a permissions row converting BINARY(16)
// columns back to UUIDs. Returns the raw scan error so callers can detect
// sql.ErrNoRows.
func scanMySQLPermissionRow(row rowScanner) (*rbacDomain.Permission, error) {
	var permission rbacDomain.Permission
	var idBinary, projectIDBinary []byte
	var riskLevel string

	err := row.Scan(
		&idBinary,
		&projectIDBinary,
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
		return nil, err
	}

	if err := permission.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permission id")
	}

	if err := permission.ProjectID.UnmarshalBinary(projectIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permission project_id")
	}

	permission.RiskLevel = rbacDomain.RiskLevel(riskLevel)

	return &permission, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// isMySQLDuplicateEntry checks for MySQL duplicate entry errors (error 1062).
func isMySQLDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// NewMySQLPermissionRepository creates a new MySQL Permission repository.
func NewMySQLPermissionRepository(db *sql.DB) *MySQLPermissionRepository {
	return &MySQLPermissionRepository{db: db}
}
