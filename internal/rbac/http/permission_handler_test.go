package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	rbacDomain "github.com/julianstoll1/access-dashboard/internal/rbac/domain"
	"github.com/julianstoll1/access-dashboard/internal/rbac/http/dto"
)

// mockPermissionUseCase is a testify mock for the permission use case.
type mockPermissionUseCase struct {
	mock.Mock
}

func (m *mockPermissionUseCase) Create(ctx context.Context, projectID uuid.UUID, input *rbacDomain.PermissionInput) (*rbacDomain.Permission, error) {
	args := m.Called(ctx, projectID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rbacDomain.Permission), args.Error(1)
}

func (m *mockPermissionUseCase) Get(ctx context.Context, projectID, permissionID uuid.UUID) (*rbacDomain.Permission, error) {
	args := m.Called(ctx, projectID, permissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rbacDomain.Permission), args.Error(1)
}

func (m *mockPermissionUseCase) List(ctx context.Context, projectID uuid.UUID) ([]*rbacDomain.Permission, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rbacDomain.Permission), args.Error(1)
}

func (m *mockPermissionUseCase) Update(ctx context.Context, projectID, permissionID uuid.UUID, input *rbacDomain.PermissionInput) (*rbacDomain.Permission, error) {
	args := m.Called(ctx, projectID, permissionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rbacDomain.Permission), args.Error(1)
}

func (m *mockPermissionUseCase) Toggle(ctx context.Context, projectID, permissionID uuid.UUID, enabled bool) (*rbacDomain.Permission, error) {
	args := m.Called(ctx, projectID, permissionID, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rbacDomain.Permission), args.Error(1)
}

func (m *mockPermissionUseCase) Delete(ctx context.Context, projectID, permissionID uuid.UUID) error {
	args := m.Called(ctx, projectID, permissionID)
	return args.Error(0)
}

// setupTestPermissionHandler creates a test handler with mocked dependencies.
func setupTestPermissionHandler(t *testing.T) (*PermissionHandler, *mockPermissionUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := new(mockPermissionUseCase)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewPermissionHandler(mockUseCase, logger)

	return handler, mockUseCase
}

func testPermission(projectID uuid.UUID) *rbacDomain.Permission {
	return &rbacDomain.Permission{
		ID:        uuid.Must(uuid.NewV7()),
		ProjectID: projectID,
		Name:      "Read users",
		Slug:      "read.users",
		Enabled:   true,
		RiskLevel: rbacDomain.RiskLow,
		CreatedAt: time.Now().UTC(),
	}
}

func TestPermissionHandler_CreateHandler(t *testing.T) {
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestPermissionHandler(t)

		permission := testPermission(projectID)
		mockUseCase.On("Create", mock.Anything, projectID, mock.MatchedBy(func(input *rbacDomain.PermissionInput) bool {
			return input.Name == "Read users" && input.RiskLevel == "low"
		})).Return(permission, nil)

		c, w := createTestContext(http.MethodPost, "/v1/projects/"+projectID.String()+"/permissions",
			dto.PermissionRequest{Name: "Read users", Slug: "read.users", RiskLevel: "low"})
		c.Params = gin.Params{{Key: "project_id", Value: projectID.String()}}

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.PermissionResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Read users", response.Name)
		assert.Equal(t, "read.users", response.Slug)
		assert.True(t, response.Enabled)
	})

	t.Run("MissingRiskLevel", func(t *testing.T) {
		handler, mockUseCase := setupTestPermissionHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/projects/"+projectID.String()+"/permissions",
			dto.PermissionRequest{Name: "Read users", Slug: "read.users"})
		c.Params = gin.Params{{Key: "project_id", Value: projectID.String()}}

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SlugTaken", func(t *testing.T) {
		handler, mockUseCase := setupTestPermissionHandler(t)

		mockUseCase.On("Create", mock.Anything, projectID, mock.Anything).
			Return(nil, rbacDomain.ErrPermissionNameTaken)

		c, w := createTestContext(http.MethodPost, "/v1/projects/"+projectID.String()+"/permissions",
			dto.PermissionRequest{Name: "Read users", Slug: "read.users", RiskLevel: "low"})
		c.Params = gin.Params{{Key: "project_id", Value: projectID.String()}}

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPermissionHandler_ToggleHandler(t *testing.T) {
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestPermissionHandler(t)

		permission := testPermission(projectID)
		permission.Enabled = false
		enabled := false

		mockUseCase.On("Toggle", mock.Anything, projectID, permission.ID, false).Return(permission, nil)

		c, w := createTestContext(http.MethodPost,
			"/v1/projects/"+projectID.String()+"/permissions/"+permission.ID.String()+"/toggle",
			dto.TogglePermissionRequest{Enabled: &enabled})
		c.Params = gin.Params{
			{Key: "project_id", Value: projectID.String()},
			{Key: "id", Value: permission.ID.String()},
		}

		handler.ToggleHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.PermissionResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response.Enabled)
	})

	t.Run("MissingEnabledField", func(t *testing.T) {
		handler, mockUseCase := setupTestPermissionHandler(t)

		permissionID := uuid.Must(uuid.NewV7())

		c, w := createTestContext(http.MethodPost,
			"/v1/projects/"+projectID.String()+"/permissions/"+permissionID.String()+"/toggle",
			map[string]any{})
		c.Params = gin.Params{
			{Key: "project_id", Value: projectID.String()},
			{Key: "id", Value: permissionID.String()},
		}

		handler.ToggleHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPermissionHandler_DeleteHandler(t *testing.T) {
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestPermissionHandler(t)

		permissionID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Delete", mock.Anything, projectID, permissionID).Return(nil)

		c, w := createTestContext(http.MethodDelete,
			"/v1/projects/"+projectID.String()+"/permissions/"+permissionID.String(), nil)
		c.Params = gin.Params{
			{Key: "project_id", Value: projectID.String()},
			{Key: "id", Value: permissionID.String()},
		}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("SystemPermission", func(t *testing.T) {
		handler, mockUseCase := setupTestPermissionHandler(t)

		permissionID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Delete", mock.Anything, projectID, permissionID).
			Return(rbacDomain.ErrSystemPermission)

		c, w := createTestContext(http.MethodDelete,
			"/v1/projects/"+projectID.String()+"/permissions/"+permissionID.String(), nil)
		c.Params = gin.Params{
			{Key: "project_id", Value: projectID.String()},
			{Key: "id", Value: permissionID.String()},
		}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response map[string]any
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Contains(t, response["message"], "System permissions cannot be deleted")
	})

	t.Run("NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestPermissionHandler(t)

		permissionID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Delete", mock.Anything, projectID, permissionID).
			Return(rbacDomain.ErrPermissionNotFound)

		c, w := createTestContext(http.MethodDelete,
			"/v1/projects/"+projectID.String()+"/permissions/"+permissionID.String(), nil)
		c.Params = gin.Params{
			{Key: "project_id", Value: projectID.String()},
			{Key: "id", Value: permissionID.String()},
		}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
