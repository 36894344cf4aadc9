package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
)

type mockProjectUseCase struct {
	mock.Mock
}

func (m *mockProjectUseCase) Create(
	ctx context.Context,
	input *projectDomain.CreateProjectInput,
) (*projectDomain.Project, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectDomain.Project), args.Error(1)
}

func (m *mockProjectUseCase) Get(ctx context.Context, projectID uuid.UUID) (*projectDomain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectDomain.Project), args.Error(1)
}

func (m *mockProjectUseCase) List(ctx context.Context) ([]*projectDomain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*projectDomain.Project), args.Error(1)
}

func TestRunCreateProject(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	projectID := uuid.Must(uuid.NewV7())

	t.Run("text-format", func(t *testing.T) {
		mockUseCase := &mockProjectUseCase{}
		input := &projectDomain.CreateProjectInput{
			Name:        "payments",
			Description: "Payments platform",
		}
		project := &projectDomain.Project{
			ID:        projectID,
			Name:      "payments",
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("Create", ctx, input).Return(project, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunCreateProject(ctx, mockUseCase, logger, "payments", "Payments platform", "text", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), projectID.String())
		require.Contains(t, out.String(), "payments")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-format", func(t *testing.T) {
		mockUseCase := &mockProjectUseCase{}
		project := &projectDomain.Project{
			ID:        projectID,
			Name:      "payments",
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("Create", ctx, mock.Anything).Return(project, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunCreateProject(ctx, mockUseCase, logger, "payments", "", "json", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), projectID.String())
		require.Contains(t, out.String(), "{") // Should be JSON
		mockUseCase.AssertExpectations(t)
	})

	t.Run("create-error", func(t *testing.T) {
		mockUseCase := &mockProjectUseCase{}
		mockUseCase.On("Create", ctx, mock.Anything).Return(nil, errors.New("boom"))

		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunCreateProject(ctx, mockUseCase, logger, "payments", "", "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create project")
	})
}
