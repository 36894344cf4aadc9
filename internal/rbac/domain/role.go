package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/julianstoll1/access-dashboard/internal/validation"
)

// Role represents a named bundle of permissions within a project.
// System roles cannot be deleted.
type Role struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Name        string
	Slug        string
	Description *string
	IsSystem    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// RoleWithPermissions is a role together with its derived fields:
// PermissionIDs comes from the link table (omitting ids whose permission row
// no longer exists) and UserCount is the number of external user grants.
type RoleWithPermissions struct {
	Role
	PermissionIDs []uuid.UUID
	UserCount     int64
}

// RoleInput contains the caller-supplied fields for creating or updating a role.
// IsSystem is settable only by internal callers such as the seed command.
type RoleInput struct {
	Name          string
	Slug          string
	Description   string
	PermissionIDs []uuid.UUID
	IsSystem      bool
}

// Normalize applies the pure input normalization and returns the normalized
// description.
func (i *RoleInput) Normalize() *string {
	i.Name = customValidation.NormalizeName(i.Name)
	i.Slug = customValidation.NormalizeSlug(i.Slug)
	return customValidation.NormalizeDescription(i.Description)
}

// Validate checks name, slug and description bounds.
func (i *RoleInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(customValidation.NameMinLength, customValidation.NameMaxLength),
		),
		validation.Field(&i.Slug,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Slug,
			validation.Length(1, customValidation.SlugMaxLength),
		),
		validation.Field(&i.Description,
			validation.Length(0, customValidation.DescriptionMaxLength),
		),
	)
	return customValidation.WrapValidationError(err)
}
