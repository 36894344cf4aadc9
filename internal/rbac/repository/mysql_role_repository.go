package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// MySQLRoleRepository implements Role and role-permission link persistence
// for MySQL. Uses BINARY(16) for UUID storage with transaction support via
// database.GetTx().
type MySQLRoleRepository struct {
	db *sql.DB
}

const mysqlRoleColumns = `id, project_id, name, slug, description, is_system, created_at, updated_at`

// Create inserts a new Role using BINARY(16) for UUIDs. Duplicate entry
// errors (MySQL error 1062) surface as ErrRoleNameTaken or ErrRoleSlugTaken
// depending on the violated index.
func (m *MySQLRoleRepository) Create(ctx context.Context, role *rbacDomain.Role) error {
	querier := database.GetTx(ctx, m.db)

	id, err := role.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	projectID, err := role.ProjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role project_id")
	}

	query := `INSERT INTO roles (` + mysqlRoleColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		projectID,
		role.Name,
		role.Slug,
		role.Description,
		role.IsSystem,
		role.CreatedAt,
		role.UpdatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return roleConflictError(err)
		}
		return apperrors.Wrap(err, "failed to create role")
	}

	return nil
}

// Get retrieves a Role by project and id. Returns ErrRoleNotFound if no row
// exists for the given id/project pair.
func (m *MySQLRoleRepository) Get(
	ctx context.Context,
	projectID, roleID uuid.UUID,
) (*rbacDomain.Role, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal project id")
	}

	roleIDBinary, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role id")
	}

	query := `SELECT ` + mysqlRoleColumns + `
			  FROM roles
			  WHERE project_id = ? AND id = ?`

	row := querier.QueryRowContext(ctx, query, projectIDBinary, roleIDBinary)
	role, err := scanMySQLRoleRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, rbacDomain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}

	return role, nil
}

// ExistsWithName reports whether the project already has a role with the
// given name. The utf8mb4 collation makes the comparison case-insensitive.
// excludeID skips the row being updated.
func (m *MySQLRoleRepository) ExistsWithName(
	ctx context.Context,
	projectID uuid.UUID,
	name string,
	excludeID *uuid.UUID,
) (bool, error) {
	return m.exists(ctx, projectID, "name", name, excludeID)
}

// ExistsWithSlug reports whether the project already has a role with the
// given slug. excludeID skips the row being updated.
func (m *MySQLRoleRepository) ExistsWithSlug(
	ctx context.Context,
	projectID uuid.UUID,
	slug string,
	excludeID *uuid.UUID,
) (bool, error) {
	return m.exists(ctx, projectID, "slug", slug, excludeID)
}

func (m *MySQLRoleRepository) exists(
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

	query := `SELECT EXISTS (SELECT 1 FROM roles WHERE project_id = ? AND ` + column + ` = ?`
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
		return false, apperrors.Wrap(err, "failed to check role "+column)
	}

	return exists, nil
}

// Update modifies an existing Role's scalar fields. Returns ErrRoleNotFound
// if no row matched; duplicate entry errors surface as the field-specific
// conflict sentinel.
func (m *MySQLRoleRepository) Update(ctx context.Context, role *rbacDomain.Role) error {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := role.ProjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role project_id")
	}

	idBinary, err := role.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	// Existence is checked first because MySQL reports zero affected rows for
	// no-op updates as well as missing rows
	var one int
	err = querier.QueryRowContext(
		ctx,
		`SELECT 1 FROM roles WHERE project_id = ? AND id = ?`,
		projectIDBinary,
		idBinary,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return rbacDomain.ErrRoleNotFound
		}
		return apperrors.Wrap(err, "failed to check role existence")
	}

	query := `UPDATE roles
			  SET name = ?,
			  	  slug = ?,
				  description = ?,
				  is_system = ?,
				  updated_at = ?
			  WHERE project_id = ? AND id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		role.Name,
		role.Slug,
		role.Description,
		role.IsSystem,
		role.UpdatedAt,
		projectIDBinary,
		idBinary,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return roleConflictError(err)
		}
		return apperrors.Wrap(err, "failed to update role")
	}

	return nil
}

// List retrieves all roles for a project ordered by created_at ascending.
// Returns empty slice if the project has no roles.
func (m *MySQLRoleRepository) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*rbacDomain.Role, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal project id")
	}

	query := `SELECT ` + mysqlRoleColumns + `
			  FROM roles
			  WHERE project_id = ?
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, projectIDBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list roles")
	}
	defer func() {
		_ = rows.Close()
	}()

	roles := make([]*rbacDomain.Role, 0)
	for rows.Next() {
		role, err := scanMySQLRoleRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate roles")
	}

	return roles, nil
}

// Delete removes a Role by project and id. The database-level foreign key
// cascade cleans up its links and grants. Returns ErrRoleNotFound if no row
// was deleted.
func (m *MySQLRoleRepository) Delete(
	ctx context.Context,
	projectID, roleID uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal project id")
	}

	roleIDBinary, err := roleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	query := `DELETE FROM roles WHERE project_id = ? AND id = ?`

	result, err := querier.ExecContext(ctx, query, projectIDBinary, roleIDBinary)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete role")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return rbacDomain.ErrRoleNotFound
	}

	return nil
}

// InsertLinks inserts one role-permission link row per permission id.
func (m *MySQLRoleRepository) InsertLinks(
	ctx context.Context,
	roleID uuid.UUID,
	permissionIDs []uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	roleIDBinary, err := roleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	query := `INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, NOW())`

	for _, permissionID := range permissionIDs {
		permissionIDBinary, err := permissionID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal permission id")
		}
		if _, err := querier.ExecContext(ctx, query, roleIDBinary, permissionIDBinary); err != nil {
			return apperrors.Wrap(err, "failed to insert role permission link")
		}
	}

	return nil
}

// DeleteLinks removes all link rows for a role.
func (m *MySQLRoleRepository) DeleteLinks(ctx context.Context, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	roleIDBinary, err := roleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	query := `DELETE FROM role_permissions WHERE role_id = ?`

	if _, err := querier.ExecContext(ctx, query, roleIDBinary); err != nil {
		return apperrors.Wrap(err, "failed to delete role permission links")
	}

	return nil
}

// GetPermissionIDs retrieves the permission ids granted by a role. The join
// against the permissions table omits ids whose permission row no longer
// exists, so dangling links never surface.
func (m *MySQLRoleRepository) GetPermissionIDs(
	ctx context.Context,
	roleID uuid.UUID,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, m.db)

	roleIDBinary, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role id")
	}

	query := `SELECT rp.permission_id
			  FROM role_permissions rp
			  JOIN permissions p ON p.id = rp.permission_id
			  WHERE rp.role_id = ?
			  ORDER BY rp.permission_id`

	rows, err := querier.QueryContext(ctx, query, roleIDBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list role permission ids")
	}
	defer func() {
		_ = rows.Close()
	}()

	permissionIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var permissionIDBinary []byte
		if err := rows.Scan(&permissionIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission id")
		}

		var permissionID uuid.UUID
		if err := permissionID.UnmarshalBinary(permissionIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal permission id")
		}
		permissionIDs = append(permissionIDs, permissionID)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permission ids")
	}

	return permissionIDs, nil
}

// CountGrants counts how many external users hold the role.
func (m *MySQLRoleRepository) CountGrants(ctx context.Context, roleID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	roleIDBinary, err := roleID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal role id")
	}

	query := `SELECT COUNT(*) FROM user_roles WHERE role_id = ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, roleIDBinary).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count role grants")
	}

	return count, nil
}

// scanMySQLRoleRow scans a roles row converting BINARY(16) columns back to
// UUIDs. Returns the raw scan error so callers can detect sql.ErrNoRows.
func scanMySQLRoleRow(row rowScanner) (*rbacDomain.Role, error) {
	var role rbacDomain.Role
	var idBinary, projectIDBinary []byte

	err := row.Scan(
		&idBinary,
		&projectIDBinary,
		&role.Name,
		&role.Slug,
		&role.Description,
		&role.IsSystem,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := role.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role id")
	}

	if err := role.ProjectID.UnmarshalBinary(projectIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role project_id")
	}

	return &role, nil
}

// NewMySQLRoleRepository creates a new MySQL Role repository.
func NewMySQLRoleRepository(db *sql.DB) *MySQLRoleRepository {
	return &MySQLRoleRepository{db: db}
}
