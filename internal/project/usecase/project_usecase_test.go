package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
)

// mockProjectRepository is a testify mock for ProjectRepository.
type mockProjectRepository struct {
	mock.Mock
}

func (m *mockProjectRepository) Create(ctx context.Context, project *projectDomain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockProjectRepository) Get(ctx context.Context, projectID uuid.UUID) (*projectDomain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectDomain.Project), args.Error(1)
}

func (m *mockProjectRepository) ExistsWithName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*projectDomain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*projectDomain.Project), args.Error(1)
}

// mockAuditRecorder is a testify mock for the audit trail recorder.
type mockAuditRecorder struct {
	mock.Mock
}

func (m *mockAuditRecorder) Record(
	ctx context.Context,
	projectID uuid.UUID,
	entityType auditDomain.EntityType,
	entityID *uuid.UUID,
	action auditDomain.Action,
	metadata map[string]any,
) {
	m.Called(ctx, projectID, entityType, entityID, action, metadata)
}

func TestProjectUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(mockProjectRepository)
		auditor := new(mockAuditRecorder)

		repo.On("ExistsWithName", ctx, "Billing platform").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p *projectDomain.Project) bool {
			return p.ID != uuid.Nil && p.Name == "Billing platform" && p.Description != nil
		})).Return(nil)
		auditor.On("Record", ctx, mock.Anything, auditDomain.EntityProject, mock.Anything, auditDomain.ActionCreated, mock.Anything).Return()

		uc := NewProjectUseCase(repo, auditor)
		project, err := uc.Create(ctx, &projectDomain.CreateProjectInput{
			Name:        "  Billing platform  ",
			Description: "Payments and invoicing",
		})

		require.NoError(t, err)
		assert.Equal(t, "Billing platform", project.Name)
		assert.Equal(t, "Payments and invoicing", *project.Description)
		repo.AssertExpectations(t)
		auditor.AssertExpectations(t)
	})

	t.Run("NameTooShort", func(t *testing.T) {
		repo := new(mockProjectRepository)
		auditor := new(mockAuditRecorder)

		uc := NewProjectUseCase(repo, auditor)
		project, err := uc.Create(ctx, &projectDomain.CreateProjectInput{Name: "x"})

		assert.Nil(t, project)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("NameTaken", func(t *testing.T) {
		repo := new(mockProjectRepository)
		auditor := new(mockAuditRecorder)

		repo.On("ExistsWithName", ctx, "Billing platform").Return(true, nil)

		uc := NewProjectUseCase(repo, auditor)
		project, err := uc.Create(ctx, &projectDomain.CreateProjectInput{Name: "Billing platform"})

		assert.Nil(t, project)
		assert.True(t, apperrors.Is(err, projectDomain.ErrProjectNameTaken))
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProjectUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		repo := new(mockProjectRepository)
		auditor := new(mockAuditRecorder)

		projectID := uuid.Must(uuid.NewV7())
		repo.On("Get", ctx, projectID).Return(nil, projectDomain.ErrProjectNotFound)

		uc := NewProjectUseCase(repo, auditor)
		project, err := uc.Get(ctx, projectID)

		assert.Nil(t, project)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}
