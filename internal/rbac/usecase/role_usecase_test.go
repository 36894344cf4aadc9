package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
)

// mockTxManager is a testify mock for database.TxManager.
type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	// Execute the function to test the logic inside
	return fn(ctx)
}

// newPassthroughTxManager returns a tx manager that runs the callback directly.
func newPassthroughTxManager() *mockTxManager {
	txManager := new(mockTxManager)
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	return txManager
}

// mockRoleRepository is a testify mock for RoleRepository.
type mockRoleRepository struct {
	mock.Mock
}

func (m *mockRoleRepository) Create(ctx context.Context, role *rbacDomain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepository) Get(ctx context.Context, projectID, roleID uuid.UUID) (*rbacDomain.Role, error) {
	args := m.Called(ctx, projectID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rbacDomain.Role), args.Error(1)
}

func (m *mockRoleRepository) ExistsWithName(ctx context.Context, projectID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoleRepository) ExistsWithSlug(ctx context.Context, projectID uuid.UUID, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoleRepository) Update(ctx context.Context, role *rbacDomain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepository) List(ctx context.Context, projectID uuid.UUID) ([]*rbacDomain.Role, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rbacDomain.Role), args.Error(1)
}

func (m *mockRoleRepository) Delete(ctx context.Context, projectID, roleID uuid.UUID) error {
	args := m.Called(ctx, projectID, roleID)
	return args.Error(0)
}

func (m *mockRoleRepository) InsertLinks(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	args := m.Called(ctx, roleID, permissionIDs)
	return args.Error(0)
}

func (m *mockRoleRepository) DeleteLinks(ctx context.Context, roleID uuid.UUID) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *mockRoleRepository) GetPermissionIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockRoleRepository) CountGrants(ctx context.Context, roleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).(int64), args.Error(1)
}

func createTestRole(projectID uuid.UUID, name, slug string) *rbacDomain.Role {
	return &rbacDomain.Role{
		ID:        uuid.Must(uuid.NewV7()),
		ProjectID: projectID,
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRoleUseCase_Create(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success_WithLinks", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		permissionIDs := []uuid.UUID{uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())}

		permissionRepo.On("CountByIDs", ctx, projectID, permissionIDs).Return(2, nil)
		roleRepo.On("ExistsWithName", ctx, projectID, "Editors", (*uuid.UUID)(nil)).Return(false, nil)
		roleRepo.On("ExistsWithSlug", ctx, projectID, "editors", (*uuid.UUID)(nil)).Return(false, nil)
		roleRepo.On("Create", ctx, mock.MatchedBy(func(r *rbacDomain.Role) bool {
			return r.ProjectID == projectID && r.Name == "Editors" && r.Slug == "editors" && !r.IsSystem
		})).Return(nil)
		roleRepo.On("InsertLinks", ctx, mock.Anything, permissionIDs).Return(nil)
		auditor.On("Record", ctx, projectID, auditDomain.EntityRole, mock.Anything, auditDomain.ActionCreated, mock.Anything).Return()

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		role, err := uc.Create(ctx, projectID, &rbacDomain.RoleInput{
			Name:          "Editors",
			Slug:          "editors",
			PermissionIDs: permissionIDs,
		})

		require.NoError(t, err)
		assert.Equal(t, "Editors", role.Name)
		assert.Equal(t, permissionIDs, role.PermissionIDs)
		assert.Equal(t, int64(0), role.UserCount)
		roleRepo.AssertExpectations(t)
		auditor.AssertExpectations(t)
	})

	t.Run("InvalidPermissionSelection", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		permissionIDs := []uuid.UUID{uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())}

		// One id belongs to another project
		permissionRepo.On("CountByIDs", ctx, projectID, permissionIDs).Return(1, nil)

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		role, err := uc.Create(ctx, projectID, &rbacDomain.RoleInput{
			Name:          "Editors",
			Slug:          "editors",
			PermissionIDs: permissionIDs,
		})

		assert.Nil(t, role)
		assert.True(t, apperrors.Is(err, rbacDomain.ErrInvalidPermissionSelection))
		roleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("LinkFailureAbortsCreate", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		permissionIDs := []uuid.UUID{uuid.Must(uuid.NewV7())}

		permissionRepo.On("CountByIDs", ctx, projectID, permissionIDs).Return(1, nil)
		roleRepo.On("ExistsWithName", ctx, projectID, "Editors", (*uuid.UUID)(nil)).Return(false, nil)
		roleRepo.On("ExistsWithSlug", ctx, projectID, "editors", (*uuid.UUID)(nil)).Return(false, nil)
		roleRepo.On("Create", ctx, mock.Anything).Return(nil)
		roleRepo.On("InsertLinks", ctx, mock.Anything, permissionIDs).Return(errors.New("connection refused"))

		// The transaction rolls back the role row; nothing is audited
		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		role, err := uc.Create(ctx, projectID, &rbacDomain.RoleInput{
			Name:          "Editors",
			Slug:          "editors",
			PermissionIDs: permissionIDs,
		})

		assert.Nil(t, role)
		assert.Error(t, err)
		auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DuplicatePermissionIDsAreCollapsed", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		permissionID := uuid.Must(uuid.NewV7())
		deduped := []uuid.UUID{permissionID}

		permissionRepo.On("CountByIDs", ctx, projectID, deduped).Return(1, nil)
		roleRepo.On("ExistsWithName", ctx, projectID, "Editors", (*uuid.UUID)(nil)).Return(false, nil)
		roleRepo.On("ExistsWithSlug", ctx, projectID, "editors", (*uuid.UUID)(nil)).Return(false, nil)
		roleRepo.On("Create", ctx, mock.Anything).Return(nil)
		roleRepo.On("InsertLinks", ctx, mock.Anything, deduped).Return(nil)
		auditor.On("Record", ctx, projectID, auditDomain.EntityRole, mock.Anything, auditDomain.ActionCreated, mock.Anything).Return()

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		role, err := uc.Create(ctx, projectID, &rbacDomain.RoleInput{
			Name:          "Editors",
			Slug:          "editors",
			PermissionIDs: []uuid.UUID{permissionID, permissionID},
		})

		require.NoError(t, err)
		assert.Equal(t, deduped, role.PermissionIDs)
		roleRepo.AssertExpectations(t)
	})
}

func TestRoleUseCase_Get(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success_IncludesDerivedFields", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		role := createTestRole(projectID, "Editors", "editors")
		permissionIDs := []uuid.UUID{uuid.Must(uuid.NewV7())}

		roleRepo.On("Get", ctx, projectID, role.ID).Return(role, nil)
		roleRepo.On("GetPermissionIDs", ctx, role.ID).Return(permissionIDs, nil)
		roleRepo.On("CountGrants", ctx, role.ID).Return(int64(3), nil)

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		output, err := uc.Get(ctx, projectID, role.ID)

		require.NoError(t, err)
		assert.Equal(t, role.Name, output.Name)
		assert.Equal(t, permissionIDs, output.PermissionIDs)
		assert.Equal(t, int64(3), output.UserCount)
	})

	t.Run("NotFound", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		roleID := uuid.Must(uuid.NewV7())
		roleRepo.On("Get", ctx, projectID, roleID).Return(nil, rbacDomain.ErrRoleNotFound)

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		output, err := uc.Get(ctx, projectID, roleID)

		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestRoleUseCase_List(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success_OrderIsPreserved", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		first := createTestRole(projectID, "First", "first")
		second := createTestRole(projectID, "Second", "second")
		firstPermissions := []uuid.UUID{uuid.Must(uuid.NewV7())}

		roleRepo.On("List", ctx, projectID).Return([]*rbacDomain.Role{first, second}, nil)
		// The derived fields load concurrently, so the context differs per call
		roleRepo.On("GetPermissionIDs", mock.Anything, first.ID).Return(firstPermissions, nil)
		roleRepo.On("GetPermissionIDs", mock.Anything, second.ID).Return([]uuid.UUID{}, nil)
		roleRepo.On("CountGrants", mock.Anything, first.ID).Return(int64(1), nil)
		roleRepo.On("CountGrants", mock.Anything, second.ID).Return(int64(0), nil)

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		output, err := uc.List(ctx, projectID)

		require.NoError(t, err)
		require.Len(t, output, 2)
		assert.Equal(t, "first", output[0].Slug)
		assert.Equal(t, firstPermissions, output[0].PermissionIDs)
		assert.Equal(t, int64(1), output[0].UserCount)
		assert.Equal(t, "second", output[1].Slug)
	})

	t.Run("Empty", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		roleRepo.On("List", ctx, projectID).Return([]*rbacDomain.Role{}, nil)

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		output, err := uc.List(ctx, projectID)

		require.NoError(t, err)
		assert.Empty(t, output)
		assert.NotNil(t, output)
	})

	t.Run("DerivedFieldFailureFailsTheList", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		role := createTestRole(projectID, "Broken", "broken")
		roleRepo.On("List", ctx, projectID).Return([]*rbacDomain.Role{role}, nil)
		roleRepo.On("GetPermissionIDs", mock.Anything, role.ID).Return(nil, errors.New("connection refused"))

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		output, err := uc.List(ctx, projectID)

		assert.Nil(t, output)
		assert.Error(t, err)
	})
}

func TestRoleUseCase_Update(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success_ReplacesEntireLinkSet", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		role := createTestRole(projectID, "Editors", "editors")
		permissionIDs := []uuid.UUID{uuid.Must(uuid.NewV7())}

		roleRepo.On("Get", ctx, projectID, role.ID).Return(role, nil)
		permissionRepo.On("CountByIDs", ctx, projectID, permissionIDs).Return(1, nil)
		roleRepo.On("ExistsWithName", ctx, projectID, "Maintainers", &role.ID).Return(false, nil)
		roleRepo.On("ExistsWithSlug", ctx, projectID, "maintainers", &role.ID).Return(false, nil)
		roleRepo.On("Update", ctx, mock.MatchedBy(func(r *rbacDomain.Role) bool {
			return r.Name == "Maintainers" && r.Slug == "maintainers" && r.UpdatedAt != nil
		})).Return(nil)
		roleRepo.On("DeleteLinks", ctx, role.ID).Return(nil)
		roleRepo.On("InsertLinks", ctx, role.ID, permissionIDs).Return(nil)
		roleRepo.On("CountGrants", ctx, role.ID).Return(int64(2), nil)
		auditor.On("Record", ctx, projectID, auditDomain.EntityRole, &role.ID, auditDomain.ActionUpdated, mock.Anything).Return()

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		output, err := uc.Update(ctx, projectID, role.ID, &rbacDomain.RoleInput{
			Name:          "Maintainers",
			Slug:          "maintainers",
			PermissionIDs: permissionIDs,
		})

		require.NoError(t, err)
		assert.Equal(t, "Maintainers", output.Name)
		assert.Equal(t, permissionIDs, output.PermissionIDs)
		assert.Equal(t, int64(2), output.UserCount)
		roleRepo.AssertExpectations(t)
		auditor.AssertExpectations(t)
	})

	t.Run("LinkReplacementRunsInOneTransaction", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)
		txManager := newPassthroughTxManager()

		role := createTestRole(projectID, "Editors", "editors")
		permissionIDs := []uuid.UUID{uuid.Must(uuid.NewV7())}

		roleRepo.On("Get", ctx, projectID, role.ID).Return(role, nil)
		permissionRepo.On("CountByIDs", ctx, projectID, permissionIDs).Return(1, nil)
		roleRepo.On("ExistsWithName", ctx, projectID, "Editors", &role.ID).Return(false, nil)
		roleRepo.On("ExistsWithSlug", ctx, projectID, "editors", &role.ID).Return(false, nil)
		roleRepo.On("Update", ctx, mock.Anything).Return(nil)
		roleRepo.On("DeleteLinks", ctx, role.ID).Return(nil)
		roleRepo.On("InsertLinks", ctx, role.ID, permissionIDs).Return(errors.New("connection refused"))

		uc := NewRoleUseCase(txManager, roleRepo, permissionRepo, auditor)
		output, err := uc.Update(ctx, projectID, role.ID, &rbacDomain.RoleInput{
			Name:          "Editors",
			Slug:          "editors",
			PermissionIDs: permissionIDs,
		})

		assert.Nil(t, output)
		assert.Error(t, err)
		// The scalar update and both link statements share one transaction,
		// so the insert failure fails the whole call and nothing is audited
		txManager.AssertNumberOfCalls(t, "WithTx", 1)
		auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NameTakenByAnotherRole", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		role := createTestRole(projectID, "Editors", "editors")

		roleRepo.On("Get", ctx, projectID, role.ID).Return(role, nil)
		roleRepo.On("ExistsWithName", ctx, projectID, "Maintainers", &role.ID).Return(true, nil)

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		output, err := uc.Update(ctx, projectID, role.ID, &rbacDomain.RoleInput{
			Name: "Maintainers",
			Slug: "maintainers",
		})

		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, rbacDomain.ErrRoleNameTaken))
		roleRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		roleRepo.AssertNotCalled(t, "DeleteLinks", mock.Anything, mock.Anything)
	})
}

func TestRoleUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		role := createTestRole(projectID, "Editors", "editors")
		roleRepo.On("Get", ctx, projectID, role.ID).Return(role, nil)
		roleRepo.On("Delete", ctx, projectID, role.ID).Return(nil)
		auditor.On("Record", ctx, projectID, auditDomain.EntityRole, &role.ID, auditDomain.ActionDeleted, mock.Anything).Return()

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		err := uc.Delete(ctx, projectID, role.ID)

		require.NoError(t, err)
		auditor.AssertExpectations(t)
	})

	t.Run("SystemRoleIsProtected", func(t *testing.T) {
		roleRepo := new(mockRoleRepository)
		permissionRepo := new(mockPermissionRepository)
		auditor := new(mockAuditRecorder)

		role := createTestRole(projectID, "Owners", "owners")
		role.IsSystem = true
		roleRepo.On("Get", ctx, projectID, role.ID).Return(role, nil)

		uc := NewRoleUseCase(newPassthroughTxManager(), roleRepo, permissionRepo, auditor)
		err := uc.Delete(ctx, projectID, role.ID)

		assert.True(t, apperrors.Is(err, rbacDomain.ErrSystemRole))
		roleRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
