// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
	customValidation "github.com/julianstoll1/access-dashboard/internal/validation"
)

// PermissionRequest contains the parameters for creating or updating a permission.
type PermissionRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	RiskLevel   string `json:"risk_level"`
	Enabled     *bool  `json:"enabled"`
}

// Validate checks if the permission request is structurally valid. Length and
// content bounds are enforced again by the domain input before any store access.
func (r *PermissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Slug,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.RiskLevel,
			validation.Required,
		),
	)
}

// ToDomainInput converts the request to the domain input type.
func (r *PermissionRequest) ToDomainInput() *rbacDomain.PermissionInput {
	return &rbacDomain.PermissionInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		RiskLevel:   r.RiskLevel,
		Enabled:     r.Enabled,
	}
}

// TogglePermissionRequest flips a permission's enabled flag.
type TogglePermissionRequest struct {
	Enabled *bool `json:"enabled"`
}

// Validate requires an explicit enabled value so a missing field cannot be
// mistaken for "disable".
func (r *TogglePermissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Enabled,
			validation.NotNil,
		),
	)
}

// RoleRequest contains the parameters for creating or updating a role.
// The permission selection always arrives complete; updates replace the
// entire link set.
type RoleRequest struct {
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// Validate checks if the role request is structurally valid.
func (r *RoleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Slug,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ToDomainInput converts the request to the domain input type. The system
// flag is never caller-settable over HTTP.
func (r *RoleRequest) ToDomainInput() *rbacDomain.RoleInput {
	return &rbacDomain.RoleInput{
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		PermissionIDs: r.PermissionIDs,
	}
}
