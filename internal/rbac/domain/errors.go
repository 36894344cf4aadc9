package domain

import (
	"github.com/julianstoll1/access-dashboard/internal/errors"
)

// Access graph errors. All wrap the shared sentinels so handlers can map them
// to status codes without knowing the concrete cause.
var (
	// ErrPermissionNotFound indicates no permission exists for the given id/project pair.
	ErrPermissionNotFound = errors.Wrap(errors.ErrNotFound, "permission not found")

	// ErrRoleNotFound indicates no role exists for the given id/project pair.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")

	// ErrPermissionNameTaken indicates another permission in the project already
	// uses the name (case-insensitive).
	ErrPermissionNameTaken = errors.Wrap(errors.ErrConflict, "Permission name already exists")

	// ErrPermissionSlugTaken indicates another permission in the project already
	// uses the slug (exact).
	ErrPermissionSlugTaken = errors.Wrap(errors.ErrConflict, "Permission slug already exists")

	// ErrRoleNameTaken indicates another role in the project already uses the
	// name (case-insensitive).
	ErrRoleNameTaken = errors.Wrap(errors.ErrConflict, "Role name already exists")

	// ErrRoleSlugTaken indicates another role in the project already uses the
	// slug (exact).
	ErrRoleSlugTaken = errors.Wrap(errors.ErrConflict, "Role slug already exists")

	// ErrSystemPermission protects baseline permissions from deletion.
	ErrSystemPermission = errors.Wrap(errors.ErrConflict, "System permissions cannot be deleted")

	// ErrSystemRole protects baseline roles from deletion.
	ErrSystemRole = errors.Wrap(errors.ErrConflict, "System roles cannot be deleted")

	// ErrInvalidPermissionSelection indicates permission ids that do not exist
	// or belong to a different project.
	ErrInvalidPermissionSelection = errors.Wrap(errors.ErrConflict, "Invalid permissions selected")
)
