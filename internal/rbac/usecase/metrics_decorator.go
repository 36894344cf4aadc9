package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/metrics"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// permissionUseCaseWithMetrics decorates PermissionUseCase with metrics instrumentation.
type permissionUseCaseWithMetrics struct {
	next    PermissionUseCase
	metrics metrics.BusinessMetrics
}

// NewPermissionUseCaseWithMetrics wraps a PermissionUseCase with metrics recording.
func NewPermissionUseCaseWithMetrics(useCase PermissionUseCase, m metrics.BusinessMetrics) PermissionUseCase {
	return &permissionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *permissionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "permission", operation, status)
	p.metrics.RecordDuration(ctx, "permission", operation, time.Since(start), status)
}

// Create records metrics for permission creation operations.
func (p *permissionUseCaseWithMetrics) Create(
	ctx context.Context,
	projectID uuid.UUID,
	input *rbacDomain.PermissionInput,
) (*rbacDomain.Permission, error) {
	start := time.Now()
	permission, err := p.next.Create(ctx, projectID, input)
	p.record(ctx, "permission_create", start, err)
	return permission, err
}

// Get records metrics for permission read operations.
func (p *permissionUseCaseWithMetrics) Get(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
) (*rbacDomain.Permission, error) {
	start := time.Now()
	permission, err := p.next.Get(ctx, projectID, permissionID)
	p.record(ctx, "permission_get", start, err)
	return permission, err
}

// List records metrics for permission list operations.
func (p *permissionUseCaseWithMetrics) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*rbacDomain.Permission, error) {
	start := time.Now()
	permissions, err := p.next.List(ctx, projectID)
	p.record(ctx, "permission_list", start, err)
	return permissions, err
}

// Update records metrics for permission update operations.
func (p *permissionUseCaseWithMetrics) Update(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
	input *rbacDomain.PermissionInput,
) (*rbacDomain.Permission, error) {
	start := time.Now()
	permission, err := p.next.Update(ctx, projectID, permissionID, input)
	p.record(ctx, "permission_update", start, err)
	return permission, err
}

// Toggle records metrics for permission toggle operations.
func (p *permissionUseCaseWithMetrics) Toggle(
	ctx context.Context,
	projectID, permissionID uuid.UUID,
	enabled bool,
) (*rbacDomain.Permission, error) {
	start := time.Now()
	permission, err := p.next.Toggle(ctx, projectID, permissionID, enabled)
	p.record(ctx, "permission_toggle", start, err)
	return permission, err
}

// Delete records metrics for permission deletion operations.
func (p *permissionUseCaseWithMetrics) Delete(ctx context.Context, projectID, permissionID uuid.UUID) error {
	start := time.Now()
	err := p.next.Delete(ctx, projectID, permissionID)
	p.record(ctx, "permission_delete", start, err)
	return err
}

// roleUseCaseWithMetrics decorates RoleUseCase with metrics instrumentation.
type roleUseCaseWithMetrics struct {
	next    RoleUseCase
	metrics metrics.BusinessMetrics
}

// NewRoleUseCaseWithMetrics wraps a RoleUseCase with metrics recording.
func NewRoleUseCaseWithMetrics(useCase RoleUseCase, m metrics.BusinessMetrics) RoleUseCase {
	return &roleUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *roleUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "role", operation, status)
	r.metrics.RecordDuration(ctx, "role", operation, time.Since(start), status)
}

// Create records metrics for role creation operations.
func (r *roleUseCaseWithMetrics) Create(
	ctx context.Context,
	projectID uuid.UUID,
	input *rbacDomain.RoleInput,
) (*rbacDomain.RoleWithPermissions, error) {
	start := time.Now()
	role, err := r.next.Create(ctx, projectID, input)
	r.record(ctx, "role_create", start, err)
	return role, err
}

// Get records metrics for role read operations.
func (r *roleUseCaseWithMetrics) Get(
	ctx context.Context,
	projectID, roleID uuid.UUID,
) (*rbacDomain.RoleWithPermissions, error) {
	start := time.Now()
	role, err := r.next.Get(ctx, projectID, roleID)
	r.record(ctx, "role_get", start, err)
	return role, err
}

// List records metrics for role list operations.
func (r *roleUseCaseWithMetrics) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*rbacDomain.RoleWithPermissions, error) {
	start := time.Now()
	roles, err := r.next.List(ctx, projectID)
	r.record(ctx, "role_list", start, err)
	return roles, err
}

// Update records metrics for role update operations.
func (r *roleUseCaseWithMetrics) Update(
	ctx context.Context,
	projectID, roleID uuid.UUID,
	input *rbacDomain.RoleInput,
) (*rbacDomain.RoleWithPermissions, error) {
	start := time.Now()
	role, err := r.next.Update(ctx, projectID, roleID, input)
	r.record(ctx, "role_update", start, err)
	return role, err
}

// Delete records metrics for role deletion operations.
func (r *roleUseCaseWithMetrics) Delete(ctx context.Context, projectID, roleID uuid.UUID) error {
	start := time.Now()
	err := r.next.Delete(ctx, projectID, roleID)
	r.record(ctx, "role_delete", start, err)
	return err
}
