// Package domain defines the API key credential domain model and business rules.
//
// An API key carries two secret representations that are never exposed together:
// a one-way SHA-256 hash used for authentication lookups, and an AEAD ciphertext
// used only for explicit reveal. The raw secret exists in memory only at
// generation/rotation time and at reveal time; it is never stored in the clear.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/julianstoll1/access-dashboard/internal/validation"
)

// Status represents the lifecycle state of an API key credential.
type Status string

const (
	// StatusActive means the credential can authenticate requests.
	StatusActive Status = "active"

	// StatusRevoked means the credential is kept for display but can no longer authenticate.
	StatusRevoked Status = "revoked"
)

// APIKey represents a machine credential owned by a project.
// Name is unique per project, case-insensitive.
type APIKey struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	Name         string
	Description  *string
	Status       Status
	UsageCount   int64
	LastUsedAt   *time.Time
	KeyHash      string // one-way hash, used for authentication lookups
	KeyEncrypted string // reversible ciphertext, used only for reveal
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// GenerateAPIKeyInput contains the caller-supplied fields for creating a credential.
type GenerateAPIKeyInput struct {
	Name        string
	Description string
}

// Normalize applies the pure input normalization (trim name, trim description,
// empty description means absent) and returns the normalized description.
func (i *GenerateAPIKeyInput) Normalize() *string {
	i.Name = customValidation.NormalizeName(i.Name)
	return customValidation.NormalizeDescription(i.Description)
}

// Validate checks name and description bounds.
func (i *GenerateAPIKeyInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(customValidation.NameMinLength, customValidation.APIKeyNameMaxLength),
		),
		validation.Field(&i.Description,
			validation.Length(0, customValidation.DescriptionMaxLength),
		),
	)
	return customValidation.WrapValidationError(err)
}

// GenerateAPIKeyOutput contains the result of generating or rotating a credential.
// SECURITY: PlainKey is returned exactly once here; afterwards it is recoverable
// only through an explicit reveal.
type GenerateAPIKeyOutput struct {
	PlainKey string
	Key      *APIKey
}

// RevealAPIKeyOutput contains the decrypted raw secret of a credential.
type RevealAPIKeyOutput struct {
	ID       uuid.UUID
	Name     string
	PlainKey string
}

// AuthenticateOutput identifies the credential that matched a raw secret.
type AuthenticateOutput struct {
	KeyID     uuid.UUID
	ProjectID uuid.UUID
}
