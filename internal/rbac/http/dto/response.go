package dto

import (
	"time"

	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// PermissionResponse represents a permission in API responses.
type PermissionResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	Enabled     bool       `json:"enabled"`
	RiskLevel   string     `json:"risk_level"`
	UsageCount  int64      `json:"usage_count"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	IsSystem    bool       `json:"is_system"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// MapPermissionToResponse converts a domain permission to an API response.
func MapPermissionToResponse(permission *rbacDomain.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          permission.ID.String(),
		ProjectID:   permission.ProjectID.String(),
		Name:        permission.Name,
		Slug:        permission.Slug,
		Description: permission.Description,
		Enabled:     permission.Enabled,
		RiskLevel:   string(permission.RiskLevel),
		UsageCount:  permission.UsageCount,
		LastUsedAt:  permission.LastUsedAt,
		IsSystem:    permission.IsSystem,
		CreatedAt:   permission.CreatedAt,
		UpdatedAt:   permission.UpdatedAt,
	}
}

// ListPermissionsResponse wraps the permission collection for list endpoints.
type ListPermissionsResponse struct {
	Permissions []PermissionResponse `json:"permissions"`
}

// MapPermissionsToListResponse converts domain permissions to a list response.
func MapPermissionsToListResponse(permissions []*rbacDomain.Permission) ListPermissionsResponse {
	responses := make([]PermissionResponse, 0, len(permissions))
	for _, permission := range permissions {
		responses = append(responses, MapPermissionToResponse(permission))
	}
	return ListPermissionsResponse{Permissions: responses}
}

// RoleResponse represents a role in API responses, including its permission
// ids and how many external users hold it.
type RoleResponse struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   *string    `json:"description,omitempty"`
	PermissionIDs []string   `json:"permission_ids"`
	UserCount     int64      `json:"user_count"`
	IsSystem      bool       `json:"is_system"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// MapRoleToResponse converts a domain role with derived fields to an API response.
func MapRoleToResponse(role *rbacDomain.RoleWithPermissions) RoleResponse {
	permissionIDs := make([]string, 0, len(role.PermissionIDs))
	for _, id := range role.PermissionIDs {
		permissionIDs = append(permissionIDs, id.String())
	}

	return RoleResponse{
		ID:            role.ID.String(),
		ProjectID:     role.ProjectID.String(),
		Name:          role.Name,
		Slug:          role.Slug,
		Description:   role.Description,
		PermissionIDs: permissionIDs,
		UserCount:     role.UserCount,
		IsSystem:      role.IsSystem,
		CreatedAt:     role.CreatedAt,
		UpdatedAt:     role.UpdatedAt,
	}
}

// ListRolesResponse wraps the role collection for list endpoints.
type ListRolesResponse struct {
	Roles []RoleResponse `json:"roles"`
}

// MapRolesToListResponse converts domain roles to a list response.
func MapRolesToListResponse(roles []*rbacDomain.RoleWithPermissions) ListRolesResponse {
	responses := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, MapRoleToResponse(role))
	}
	return ListRolesResponse{Roles: responses}
}
