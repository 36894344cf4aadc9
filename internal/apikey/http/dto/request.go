// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	apikeyDomain "github.com/julianstoll1/access-dashboard/internal/apikey/domain"
	customValidation "github.com/julianstoll1/access-dashboard/internal/validation"
)

// GenerateAPIKeyRequest contains the parameters for generating or rotating a credential.
type GenerateAPIKeyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks if the generate request is structurally valid. Length and
// content bounds are enforced again by the domain input before any store access.
func (r *GenerateAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ToDomainInput converts the request to the domain input type.
func (r *GenerateAPIKeyRequest) ToDomainInput() *apikeyDomain.GenerateAPIKeyInput {
	return &apikeyDomain.GenerateAPIKeyInput{
		Name:        r.Name,
		Description: r.Description,
	}
}
