package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// roleUseCase implements the RoleUseCase interface.
type roleUseCase struct {
	txManager      database.TxManager
	roleRepo       RoleRepository
	permissionRepo PermissionRepository
	auditor        AuditRecorder
}

// Create adds a new role with its permission links.
//
// The permission selection is validated by counting matches within the
// project: any id that does not exist or belongs to another project fails the
// whole request. The role row and its links are committed in one transaction
// so a link failure never leaves a partially created role behind. On success
// one "created" audit entry is appended.
func (r *roleUseCase) Create(
	ctx context.Context,
	projectID uuid.UUID,
	input *rbacDomain.RoleInput,
) (*rbacDomain.RoleWithPermissions, error) {
	description := input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	permissionIDs := dedupeIDs(input.PermissionIDs)
	if err := r.checkPermissionSelection(ctx, projectID, permissionIDs); err != nil {
		return nil, err
	}

	if err := r.checkUniqueness(ctx, projectID, input.Name, input.Slug, nil); err != nil {
		return nil, err
	}

	role := &rbacDomain.Role{
		ID:          uuid.Must(uuid.NewV7()),
		ProjectID:   projectID,
		Name:        input.Name,
		Slug:        input.Slug,
		Description: description,
		IsSystem:    input.IsSystem,
		CreatedAt:   time.Now().UTC(),
	}

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := r.roleRepo.Create(ctx, role); err != nil {
			return err
		}
		if err := r.roleRepo.InsertLinks(ctx, role.ID, permissionIDs); err != nil {
			return apperrors.Wrap(err, "failed to link role permissions")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.auditor.Record(ctx, projectID, auditDomain.EntityRole, &role.ID, auditDomain.ActionCreated, map[string]any{
		"name": role.Name,
		"slug": role.Slug,
	})

	return &rbacDomain.RoleWithPermissions{
		Role:          *role,
		PermissionIDs: permissionIDs,
		UserCount:     0,
	}, nil
}

// Get retrieves a role with its permission ids and user count.
func (r *roleUseCase) Get(
	ctx context.Context,
	projectID, roleID uuid.UUID,
) (*rbacDomain.RoleWithPermissions, error) {
	role, err := r.roleRepo.Get(ctx, projectID, roleID)
	if err != nil {
		return nil, err
	}

	return r.withDerivedFields(ctx, role)
}

// List retrieves all roles for a project with their derived fields.
//
// The permission ids and user counts are loaded concurrently per role,
// bounded to keep the number of in-flight queries below the pool size.
func (r *roleUseCase) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*rbacDomain.RoleWithPermissions, error) {
	roles, err := r.roleRepo.List(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Initialize empty slice to avoid returning nil for empty results
	result := make([]*rbacDomain.RoleWithPermissions, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, role := range roles {
		g.Go(func() error {
			withPermissions, err := r.withDerivedFields(gctx, role)
			if err != nil {
				return err
			}
			result[i] = withPermissions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// Update modifies a role's scalar fields and replaces its entire link set.
//
// The scalar update and the delete-all-then-insert-new link replacement run
// in one transaction, so the role can never be observed with a partial link
// set. On success one "updated" audit entry is appended.
func (r *roleUseCase) Update(
	ctx context.Context,
	projectID, roleID uuid.UUID,
	input *rbacDomain.RoleInput,
) (*rbacDomain.RoleWithPermissions, error) {
	role, err := r.roleRepo.Get(ctx, projectID, roleID)
	if err != nil {
		return nil, err
	}

	description := input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	permissionIDs := dedupeIDs(input.PermissionIDs)
	if err := r.checkPermissionSelection(ctx, projectID, permissionIDs); err != nil {
		return nil, err
	}

	if err := r.checkUniqueness(ctx, projectID, input.Name, input.Slug, &roleID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	role.Name = input.Name
	role.Slug = input.Slug
	role.Description = description
	role.UpdatedAt = &now

	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := r.roleRepo.Update(ctx, role); err != nil {
			return err
		}
		if err := r.roleRepo.DeleteLinks(ctx, roleID); err != nil {
			return err
		}
		if err := r.roleRepo.InsertLinks(ctx, roleID, permissionIDs); err != nil {
			return apperrors.Wrap(err, "failed to link role permissions")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.auditor.Record(ctx, projectID, auditDomain.EntityRole, &roleID, auditDomain.ActionUpdated, map[string]any{
		"name": role.Name,
	})

	userCount, err := r.roleRepo.CountGrants(ctx, roleID)
	if err != nil {
		return nil, err
	}

	return &rbacDomain.RoleWithPermissions{
		Role:          *role,
		PermissionIDs: permissionIDs,
		UserCount:     userCount,
	}, nil
}

// Delete removes a role and appends a "deleted" audit entry.
//
// System roles are refused. Links and user grants referencing the role are
// cleaned up by the database-level cascade.
func (r *roleUseCase) Delete(ctx context.Context, projectID, roleID uuid.UUID) error {
	role, err := r.roleRepo.Get(ctx, projectID, roleID)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return rbacDomain.ErrSystemRole
	}

	if err := r.roleRepo.Delete(ctx, projectID, roleID); err != nil {
		return err
	}

	r.auditor.Record(ctx, projectID, auditDomain.EntityRole, &roleID, auditDomain.ActionDeleted, map[string]any{
		"name": role.Name,
		"slug": role.Slug,
	})

	return nil
}

// withDerivedFields loads the permission ids and user count for a role.
func (r *roleUseCase) withDerivedFields(
	ctx context.Context,
	role *rbacDomain.Role,
) (*rbacDomain.RoleWithPermissions, error) {
	permissionIDs, err := r.roleRepo.GetPermissionIDs(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	userCount, err := r.roleRepo.CountGrants(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	return &rbacDomain.RoleWithPermissions{
		Role:          *role,
		PermissionIDs: permissionIDs,
		UserCount:     userCount,
	}, nil
}

// checkPermissionSelection verifies every id exists within the project.
func (r *roleUseCase) checkPermissionSelection(
	ctx context.Context,
	projectID uuid.UUID,
	permissionIDs []uuid.UUID,
) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	count, err := r.permissionRepo.CountByIDs(ctx, projectID, permissionIDs)
	if err != nil {
		return err
	}
	if count != len(permissionIDs) {
		return rbacDomain.ErrInvalidPermissionSelection
	}

	return nil
}

// checkUniqueness verifies neither the name nor the slug is claimed by
// another role in the project.
func (r *roleUseCase) checkUniqueness(
	ctx context.Context,
	projectID uuid.UUID,
	name, slug string,
	excludeID *uuid.UUID,
) error {
	taken, err := r.roleRepo.ExistsWithName(ctx, projectID, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return rbacDomain.ErrRoleNameTaken
	}

	taken, err = r.roleRepo.ExistsWithSlug(ctx, projectID, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return rbacDomain.ErrRoleSlugTaken
	}

	return nil
}

// dedupeIDs removes duplicate ids preserving first-seen order.
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// NewRoleUseCase creates a new RoleUseCase with the provided dependencies.
func NewRoleUseCase(
	txManager database.TxManager,
	roleRepo RoleRepository,
	permissionRepo PermissionRepository,
	auditor AuditRecorder,
) RoleUseCase {
	return &roleUseCase{
		txManager:      txManager,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		auditor:        auditor,
	}
}
