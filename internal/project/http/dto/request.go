// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
	customValidation "github.com/julianstoll1/access-dashboard/internal/validation"
)

// CreateProjectRequest contains the parameters for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks if the create request is structurally valid. Length bounds
// are enforced again by the domain input before any store access.
func (r *CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ToDomainInput converts the request to the domain input type.
func (r *CreateProjectRequest) ToDomainInput() *projectDomain.CreateProjectInput {
	return &projectDomain.CreateProjectInput{
		Name:        r.Name,
		Description: r.Description,
	}
}
