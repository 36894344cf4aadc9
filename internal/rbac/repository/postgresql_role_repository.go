package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// PostgreSQLRoleRepository implements Role and role-permission link
// persistence for PostgreSQL. Uses native UUID types with transaction support
// via database.GetTx().
type PostgreSQLRoleRepository struct {
	db *sql.DB
}

const postgresRoleColumns = `id, project_id, name, slug, description, is_system, created_at, updated_at`

// Create inserts a new Role. Unique violations on the per-project name or
// slug indexes surface as ErrRoleNameTaken or ErrRoleSlugTaken.
func (p *PostgreSQLRoleRepository) Create(ctx context.Context, role *rbacDomain.Role) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO roles (` + postgresRoleColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		role.ID,
		role.ProjectID,
		role.Name,
		role.Slug,
		role.Description,
		role.IsSystem,
		role.CreatedAt,
		role.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return roleConflictError(err)
		}
		return apperrors.Wrap(err, "failed to create role")
	}

	return nil
}

// Get retrieves a Role by project and id. Returns ErrRoleNotFound if no row
// exists for the given id/project pair.
func (p *PostgreSQLRoleRepository) Get(
	ctx context.Context,
	projectID, roleID uuid.UUID,
) (*rbacDomain.Role, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresRoleColumns + `
			  FROM roles
			  WHERE project_id = $1 AND id = $2`

	var role rbacDomain.Role
	err := querier.QueryRowContext(ctx, query, projectID, roleID).Scan(
		&role.ID,
		&role.ProjectID,
		&role.Name,
		&role.Slug,
		&role.Description,
		&role.IsSystem,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, rbacDomain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}

	return &role, nil
}

// ExistsWithName reports whether the project already has a role with the given
// name, comparing case-insensitively. excludeID skips the row being updated.
func (p *PostgreSQLRoleRepository) ExistsWithName(
	ctx context.Context,
	projectID uuid.UUID,
	name string,
	excludeID *uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				  SELECT 1 FROM roles
				  WHERE project_id = $1 AND LOWER(name) = LOWER($2) AND ($3::uuid IS NULL OR id != $3)
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, projectID, name, excludeID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check role name")
	}

	return exists, nil
}

// ExistsWithSlug reports whether the project already has a role with the given
// slug. excludeID skips the row being updated.
func (p *PostgreSQLRoleRepository) ExistsWithSlug(
	ctx context.Context,
	projectID uuid.UUID,
	slug string,
	excludeID *uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				  SELECT 1 FROM roles
				  WHERE project_id = $1 AND slug = $2 AND ($3::uuid IS NULL OR id != $3)
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, projectID, slug, excludeID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check role slug")
	}

	return exists, nil
}

// Update modifies an existing Role's scalar fields. Returns ErrRoleNotFound
// if no row was updated; unique violations surface as the field-specific
// conflict sentinel.
func (p *PostgreSQLRoleRepository) Update(ctx context.Context, role *rbacDomain.Role) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE roles
			  SET name = $1,
			  	  slug = $2,
				  description = $3,
				  is_system = $4,
				  updated_at = $5
			  WHERE project_id = $6 AND id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		role.Name,
		role.Slug,
		role.Description,
		role.IsSystem,
		role.UpdatedAt,
		role.ProjectID,
		role.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return roleConflictError(err)
		}
		return apperrors.Wrap(err, "failed to update role")
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

// List retrieves all roles for a project ordered by created_at ascending.
// Returns empty slice if the project has no roles.
func (p *PostgreSQLRoleRepository) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*rbacDomain.Role, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresRoleColumns + `
			  FROM roles
			  WHERE project_id = $1
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list roles")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	roles := make([]*rbacDomain.Role, 0)
	for rows.Next() {
		var role rbacDomain.Role

		err := rows.Scan(
			&role.ID,
			&role.ProjectID,
			&role.Name,
			&role.Slug,
			&role.Description,
			&role.IsSystem,
			&role.CreatedAt,
			&role.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}

		roles = append(roles, &role)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate roles")
	}

	return roles, nil
}

// Delete removes a Role by project and id. The database-level foreign key
// cascade cleans up its links and grants. Returns ErrRoleNotFound if no row
// was deleted.
func (p *PostgreSQLRoleRepository) Delete(
	ctx context.Context,
	projectID, roleID uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM roles WHERE project_id = $1 AND id = $2`

	result, err := querier.ExecContext(ctx, query, projectID, roleID)
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
func (p *PostgreSQLRoleRepository) InsertLinks(
	ctx context.Context,
	roleID uuid.UUID,
	permissionIDs []uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES ($1, $2, NOW())`

	for _, permissionID := range permissionIDs {
		if _, err := querier.ExecContext(ctx, query, roleID, permissionID); err != nil {
			return apperrors.Wrap(err, "failed to insert role permission link")
		}
	}

	return nil
}

// DeleteLinks removes all link rows for a role.
func (p *PostgreSQLRoleRepository) DeleteLinks(ctx context.Context, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM role_permissions WHERE role_id = $1`

	if _, err := querier.ExecContext(ctx, query, roleID); err != nil {
		return apperrors.Wrap(err, "failed to delete role permission links")
	}

	return nil
}

// GetPermissionIDs retrieves the permission ids granted by a role. The join
// against the permissions table omits ids whose permission row no longer
// exists, so dangling links never surface.
func (p *PostgreSQLRoleRepository) GetPermissionIDs(
	ctx context.Context,
	roleID uuid.UUID,
) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT rp.permission_id
			  FROM role_permissions rp
			  JOIN permissions p ON p.id = rp.permission_id
			  WHERE rp.role_id = $1
			  ORDER BY rp.permission_id`

	rows, err := querier.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list role permission ids")
	}
	defer func() {
		_ = rows.Close()
	}()

	permissionIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var permissionID uuid.UUID
		if err := rows.Scan(&permissionID); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission id")
		}
		permissionIDs = append(permissionIDs, permissionID)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permission ids")
	}

	return permissionIDs, nil
}

// CountGrants counts how many external users hold the role.
func (p *PostgreSQLRoleRepository) CountGrants(ctx context.Context, roleID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM user_roles WHERE role_id = $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, roleID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count role grants")
	}

	return count, nil
}

// roleConflictError picks the field-specific conflict sentinel for a duplicate
// role row, keying off the index named in the driver error.
func roleConflictError(err error) error {
	if strings.Contains(err.Error(), "roles_project_id_slug_key") {
		return rbacDomain.ErrRoleSlugTaken
	}
	return rbacDomain.ErrRoleNameTaken
}

// NewPostgreSQLRoleRepository creates a new PostgreSQL Role repository.
func NewPostgreSQLRoleRepository(db *sql.DB) *PostgreSQLRoleRepository {
	return &PostgreSQLRoleRepository{db: db}
}
