// Package domain defines the project domain model.
//
// Projects are the scoping boundary for everything else: credentials, the
// access graph and the audit trail all hang off a project id.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/julianstoll1/access-dashboard/internal/validation"
)

// Project represents a tenant scope. Name is unique case-insensitively
// across all projects.
type Project struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// CreateProjectInput contains the caller-supplied fields for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// Normalize applies the pure input normalization and returns the normalized
// description.
func (i *CreateProjectInput) Normalize() *string {
	i.Name = customValidation.NormalizeName(i.Name)
	return customValidation.NormalizeDescription(i.Description)
}

// Validate checks name and description bounds.
func (i *CreateProjectInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(customValidation.NameMinLength, customValidation.ProjectNameMaxLength),
		),
		validation.Field(&i.Description,
			validation.Length(0, customValidation.ProjectDescriptionMaxLength),
		),
	)
	return customValidation.WrapValidationError(err)
}
