package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// permissionUseCase implements the PermissionUseCase interface.
type permissionUseCase struct {
	permissionRepo PermissionRepository
	auditor        AuditRecorder
}

// Create adds a new permission to the project.
//
// New permissions start enabled with zero usage and are never system-flagged;
// baseline system permissions are installed by the seed command through the
// repository directly. The name and slug checks are separate reads from the
// insert; the unique indexes back them up and the repository translates a
// constraint race into the same conflict error. On success one "created"
// audit entry is appended.
func (p *permissionUseCase) Create(
	ctx context.Context,
	projectID uuid.UUID,
	input *rbacDomain.PermissionInput,
) (*rbacDomain.Permission, error) {
	description := input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := p.checkUniqueness(ctx, projectID, input.Name, input.Slug, nil); err != nil {
		return nil, err
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	permission := &rbacDomain.Permission{
		ID:          uuid.Must(uuid.NewV7()),
		ProjectID:   projectID,
		Name:        input.Name,
		Slug:        input.Slug,
		Description: description,
		Enabled:     enabled,
		RiskLevel:   rbacDomain.RiskLevel(input.RiskLevel),
		UsageCount:  0,
		IsSystem:    false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := p.permissionRepo.Create(ctx, permission); err != nil {
		return nil, err
	}

	p.auditor.Record(ctx, projectID, auditDomain.EntityPermission, &permission.ID, auditDomain.ActionCreated, map[string]any{
		"name": permission.Name,
		"slug": permission.Slug,
	})

	return permission, nil
}

// Get retrieves a permission by project and id.
func (p *permissionUseCase) Get(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
) (*rbacDomain.Permission, error) {
	return p.permissionRepo.Get(ctx, projectID, permissionID)
}

// List retrieves all permissions for a project.
func (p *permissionUseCase) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*rbacDomain.Permission, error) {
	return p.permissionRepo.List(ctx, projectID)
}

// Update modifies a permission's caller-editable fields.
//
// Uniqueness checks exclude the row being updated so a no-op rename passes.
// A nil input.Enabled keeps the current enabled state. Usage tracking and the
// system flag are never caller-editable. On success one "updated" audit
// entry is appended.
func (p *permissionUseCase) Update(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
	input *rbacDomain.PermissionInput,
) (*rbacDomain.Permission, error) {
	permission, err := p.permissionRepo.Get(ctx, projectID, permissionID)
	if err != nil {
		return nil, err
	}

	description := input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := p.checkUniqueness(ctx, projectID, input.Name, input.Slug, &permissionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	permission.Name = input.Name
	permission.Slug = input.Slug
	permission.Description = description
	permission.RiskLevel = rbacDomain.RiskLevel(input.RiskLevel)
	if input.Enabled != nil {
		permission.Enabled = *input.Enabled
	}
	permission.UpdatedAt = &now

	if err := p.permissionRepo.Update(ctx, permission); err != nil {
		return nil, err
	}

	p.auditor.Record(ctx, projectID, auditDomain.EntityPermission, &permissionID, auditDomain.ActionUpdated, map[string]any{
		"name": permission.Name,
	})

	return permission, nil
}

// Toggle flips only the enabled flag.
//
// The write is restricted to the flag itself so a toggle never clobbers a
// concurrent edit of the other fields. The audit entry is an "updated" with
// an event marker so the trail distinguishes a toggle from a full edit.
func (p *permissionUseCase) Toggle(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
	enabled bool,
) (*rbacDomain.Permission, error) {
	permission, err := p.permissionRepo.Get(ctx, projectID, permissionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := p.permissionRepo.SetEnabled(ctx, projectID, permissionID, enabled, now); err != nil {
		return nil, err
	}
	permission.Enabled = enabled
	permission.UpdatedAt = &now

	event := "permission_disabled"
	if enabled {
		event = "permission_enabled"
	}
	p.auditor.Record(ctx, projectID, auditDomain.EntityPermission, &permissionID, auditDomain.ActionUpdated, map[string]any{
		"name":  permission.Name,
		"event": event,
	})

	return permission, nil
}

// Delete removes a permission and appends a "deleted" audit entry.
//
// System permissions are refused. Role links referencing the permission are
// cleaned up by the database-level cascade.
func (p *permissionUseCase) Delete(ctx context.Context, projectID, permissionID uuid.UUID) error {
	permission, err := p.permissionRepo.Get(ctx, projectID, permissionID)
	if err != nil {
		return err
	}

	if permission.IsSystem {
		return rbacDomain.ErrSystemPermission
	}

	if err := p.permissionRepo.Delete(ctx, projectID, permissionID); err != nil {
		return err
	}

	p.auditor.Record(ctx, projectID, auditDomain.EntityPermission, &permissionID, auditDomain.ActionDeleted, map[string]any{
		"name": permission.Name,
		"slug": permission.Slug,
	})

	return nil
}

// checkUniqueness verifies neither the name nor the slug is claimed by
// another permission in the project.
func (p *permissionUseCase) checkUniqueness(
	ctx context.Context,
	projectID uuid.UUID,
	name, slug string,
	excludeID *uuid.UUID,
) error {
	taken, err := p.permissionRepo.ExistsWithName(ctx, projectID, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return rbacDomain.ErrPermissionNameTaken
	}

	taken, err = p.permissionRepo.ExistsWithSlug(ctx, projectID, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return rbacDomain.ErrPermissionSlugTaken
	}

	return nil
}

// NewPermissionUseCase creates a new PermissionUseCase with the provided dependencies.
func NewPermissionUseCase(permissionRepo PermissionRepository, auditor AuditRecorder) PermissionUseCase {
	return &permissionUseCase{
		permissionRepo: permissionRepo,
		auditor:        auditor,
	}
}
