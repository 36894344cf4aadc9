// Package domain defines the role and permission access graph domain model.
//
// Permissions and roles are scoped to a project. Roles grant permissions
// through link rows with no independent identity; deleting either side removes
// the links that reference it. System-flagged rows are protected from deletion.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	customValidation "github.com/julianstoll1/access-dashboard/internal/validation"
)

// RiskLevel classifies how dangerous granting a permission is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel converts a string to a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), nil
	default:
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "risk_level must be one of: low, medium, high")
	}
}

// Permission represents a grantable capability within a project.
// Name is unique per project case-insensitively; slug is unique per project
// exactly. System permissions cannot be deleted.
type Permission struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Name        string
	Slug        string
	Description *string
	Enabled     bool
	RiskLevel   RiskLevel
	UsageCount  int64
	LastUsedAt  *time.Time
	IsSystem    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// PermissionInput contains the caller-supplied fields for creating or
// updating a permission.
type PermissionInput struct {
	Name        string
	Slug        string
	Description string
	RiskLevel   string
	Enabled     *bool
}

// Normalize applies the pure input normalization (trim name, trim+lowercase
// slug, trim description with empty meaning absent) and returns the
// normalized description.
func (i *PermissionInput) Normalize() *string {
	i.Name = customValidation.NormalizeName(i.Name)
	i.Slug = customValidation.NormalizeSlug(i.Slug)
	return customValidation.NormalizeDescription(i.Description)
}

// Validate checks name, slug, description and risk level bounds.
func (i *PermissionInput) Validate() error {
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
		validation.Field(&i.RiskLevel,
			validation.Required,
			validation.In("low", "medium", "high"),
		),
	)
	return customValidation.WrapValidationError(err)
}
