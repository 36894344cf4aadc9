// Package usecase implements business logic orchestration for the access graph.
//
// Use cases coordinate permission and role lifecycle around the repositories:
// uniqueness checks, permission selection validation, link set replacement and
// system-row protection. Every successful mutation is recorded in the audit
// trail.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// PermissionRepository defines persistence operations for permissions.
type PermissionRepository interface {
	// Create inserts a new permission. Returns ErrPermissionNameTaken or
	// ErrPermissionSlugTaken on a duplicate per-project name or slug.
	Create(ctx context.Context, permission *rbacDomain.Permission) error

	// Get retrieves a permission by project and id.
	Get(ctx context.Context, projectID, permissionID uuid.UUID) (*rbacDomain.Permission, error)

	// ExistsWithName reports whether the project already has a permission with
	// the given name (case-insensitive). excludeID skips the row being updated.
	ExistsWithName(ctx context.Context, projectID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// ExistsWithSlug reports whether the project already has a permission with
	// the given slug. excludeID skips the row being updated.
	ExistsWithSlug(ctx context.Context, projectID uuid.UUID, slug string, excludeID *uuid.UUID) (bool, error)

	// Update modifies an existing permission.
	Update(ctx context.Context, permission *rbacDomain.Permission) error

	// SetEnabled writes only the enabled flag and updated_at, leaving every
	// other column untouched.
	SetEnabled(ctx context.Context, projectID, permissionID uuid.UUID, enabled bool, updatedAt time.Time) error

	// List retrieves all permissions for a project.
	List(ctx context.Context, projectID uuid.UUID) ([]*rbacDomain.Permission, error)

	// Delete removes a permission by project and id.
	Delete(ctx context.Context, projectID, permissionID uuid.UUID) error

	// CountByIDs counts how many of the given permission ids exist within the
	// project.
	CountByIDs(ctx context.Context, projectID uuid.UUID, permissionIDs []uuid.UUID) (int, error)
}

// RoleRepository defines persistence operations for roles and their
// permission links.
type RoleRepository interface {
	// Create inserts a new role. Returns ErrRoleNameTaken or ErrRoleSlugTaken
	// on a duplicate per-project name or slug.
	Create(ctx context.Context, role *rbacDomain.Role) error

	// Get retrieves a role by project and id.
	Get(ctx context.Context, projectID, roleID uuid.UUID) (*rbacDomain.Role, error)

	// ExistsWithName reports whether the project already has a role with the
	// given name (case-insensitive). excludeID skips the row being updated.
	ExistsWithName(ctx context.Context, projectID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// ExistsWithSlug reports whether the project already has a role with the
	// given slug. excludeID skips the row being updated.
	ExistsWithSlug(ctx context.Context, projectID uuid.UUID, slug string, excludeID *uuid.UUID) (bool, error)

	// Update modifies an existing role's scalar fields.
	Update(ctx context.Context, role *rbacDomain.Role) error

	// List retrieves all roles for a project.
	List(ctx context.Context, projectID uuid.UUID) ([]*rbacDomain.Role, error)

	// Delete removes a role by project and id.
	Delete(ctx context.Context, projectID, roleID uuid.UUID) error

	// InsertLinks inserts one role-permission link per permission id.
	InsertLinks(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error

	// DeleteLinks removes all link rows for a role.
	DeleteLinks(ctx context.Context, roleID uuid.UUID) error

	// GetPermissionIDs retrieves the permission ids granted by a role,
	// omitting dangling links.
	GetPermissionIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)

	// CountGrants counts how many external users hold the role.
	CountGrants(ctx context.Context, roleID uuid.UUID) (int64, error)
}

// AuditRecorder appends audit trail entries for completed mutations.
// Satisfied by the audit use case; failures never propagate to the caller.
type AuditRecorder interface {
	Record(
		ctx context.Context,
		projectID uuid.UUID,
		entityType auditDomain.EntityType,
		entityID *uuid.UUID,
		action auditDomain.Action,
		metadata map[string]any,
	)
}

// PermissionUseCase manages the permission lifecycle.
type PermissionUseCase interface {
	// Create adds a new permission to the project, enabled by default.
	Create(ctx context.Context, projectID uuid.UUID, input *rbacDomain.PermissionInput) (*rbacDomain.Permission, error)

	// Get retrieves a permission by project and id.
	Get(ctx context.Context, projectID, permissionID uuid.UUID) (*rbacDomain.Permission, error)

	// List retrieves all permissions for a project.
	List(ctx context.Context, projectID uuid.UUID) ([]*rbacDomain.Permission, error)

	// Update modifies a permission's caller-editable fields. A nil
	// input.Enabled keeps the current enabled state.
	Update(ctx context.Context, projectID, permissionID uuid.UUID, input *rbacDomain.PermissionInput) (*rbacDomain.Permission, error)

	// Toggle flips only the enabled flag without touching other fields.
	Toggle(ctx context.Context, projectID, permissionID uuid.UUID, enabled bool) (*rbacDomain.Permission, error)

	// Delete removes a permission. System permissions are protected.
	Delete(ctx context.Context, projectID, permissionID uuid.UUID) error
}

// RoleUseCase manages the role lifecycle including permission links.
type RoleUseCase interface {
	// Create adds a new role with its permission links.
	Create(ctx context.Context, projectID uuid.UUID, input *rbacDomain.RoleInput) (*rbacDomain.RoleWithPermissions, error)

	// Get retrieves a role with its permission ids and user count.
	Get(ctx context.Context, projectID, roleID uuid.UUID) (*rbacDomain.RoleWithPermissions, error)

	// List retrieves all roles for a project with their derived fields.
	List(ctx context.Context, projectID uuid.UUID) ([]*rbacDomain.RoleWithPermissions, error)

	// Update modifies a role's scalar fields and replaces its entire link set.
	Update(ctx context.Context, projectID, roleID uuid.UUID, input *rbacDomain.RoleInput) (*rbacDomain.RoleWithPermissions, error)

	// Delete removes a role and its links. System roles are protected.
	Delete(ctx context.Context, projectID, roleID uuid.UUID) error
}
