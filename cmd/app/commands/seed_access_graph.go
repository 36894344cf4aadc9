package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/database"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
	rbacUseCase "github.com/julianstoll1/access-dashboard/internal/rbac/usecase"
)

// adminRoleSlug is the slug of the baseline system role; its presence marks a
// project as already seeded.
const adminRoleSlug = "administrators"

// baselinePermissions are the system permissions installed into every seeded
// project.
var baselinePermissions = []struct {
	name      string
	slug      string
	riskLevel rbacDomain.RiskLevel
}{
	{name: "Read access", slug: "read.access", riskLevel: rbacDomain.RiskLow},
	{name: "Write access", slug: "write.access", riskLevel: rbacDomain.RiskMedium},
	{name: "Admin access", slug: "admin.access", riskLevel: rbacDomain.RiskHigh},
}

// RunSeedAccessGraph installs the baseline access graph into a project: the
// system permissions and an "Administrators" system role granting all of them.
//
// The command goes through the repositories directly because system rows are
// not creatable through the use cases. The whole seed runs in one transaction,
// and a project whose administrators role already exists is left untouched, so
// re-running the command is safe.
//
// Requirements: Database must be migrated and the project must exist.
func RunSeedAccessGraph(
	ctx context.Context,
	txManager database.TxManager,
	permissionRepo rbacUseCase.PermissionRepository,
	roleRepo rbacUseCase.RoleRepository,
	logger *slog.Logger,
	projectID uuid.UUID,
) error {
	logger.Info("seeding access graph", slog.String("project_id", projectID.String()))

	err := txManager.WithTx(ctx, func(ctx context.Context) error {
		seeded, err := roleRepo.ExistsWithSlug(ctx, projectID, adminRoleSlug, nil)
		if err != nil {
			return fmt.Errorf("failed to check for existing administrators role: %w", err)
		}
		if seeded {
			logger.Info("access graph already seeded, nothing to do")
			return nil
		}

		permissionIDs, err := seedPermissions(ctx, permissionRepo, projectID)
		if err != nil {
			return err
		}

		role := &rbacDomain.Role{
			ID:        uuid.Must(uuid.NewV7()),
			ProjectID: projectID,
			Name:      "Administrators",
			Slug:      adminRoleSlug,
			IsSystem:  true,
			CreatedAt: time.Now().UTC(),
		}
		if err := roleRepo.Create(ctx, role); err != nil {
			return fmt.Errorf("failed to create administrators role: %w", err)
		}

		if err := roleRepo.InsertLinks(ctx, role.ID, permissionIDs); err != nil {
			return fmt.Errorf("failed to link administrators role permissions: %w", err)
		}

		logger.Info("access graph seeded successfully",
			slog.String("role_id", role.ID.String()),
			slog.Int("permissions", len(permissionIDs)),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed access graph: %w", err)
	}

	return nil
}

// seedPermissions ensures every baseline permission exists in the project and
// returns their ids. Permissions already present keep their existing rows.
func seedPermissions(
	ctx context.Context,
	permissionRepo rbacUseCase.PermissionRepository,
	projectID uuid.UUID,
) ([]uuid.UUID, error) {
	existing, err := permissionRepo.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing permissions: %w", err)
	}

	bySlug := make(map[string]uuid.UUID, len(existing))
	for _, permission := range existing {
		bySlug[permission.Slug] = permission.ID
	}

	permissionIDs := make([]uuid.UUID, 0, len(baselinePermissions))
	for _, baseline := range baselinePermissions {
		if id, ok := bySlug[baseline.slug]; ok {
			permissionIDs = append(permissionIDs, id)
			continue
		}

		permission := &rbacDomain.Permission{
			ID:        uuid.Must(uuid.NewV7()),
			ProjectID: projectID,
			Name:      baseline.name,
			Slug:      baseline.slug,
			Enabled:   true,
			RiskLevel: baseline.riskLevel,
			IsSystem:  true,
			CreatedAt: time.Now().UTC(),
		}
		if err := permissionRepo.Create(ctx, permission); err != nil {
			return nil, fmt.Errorf("failed to create permission %q: %w", baseline.slug, err)
		}
		permissionIDs = append(permissionIDs, permission.ID)
	}

	return permissionIDs, nil
}
