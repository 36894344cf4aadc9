package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
	"github.com/julianstoll1/access-dashboard/internal/project/http/dto"
)

// mockProjectUseCase is a testify mock for the project use case.
type mockProjectUseCase struct {
	mock.Mock
}

func (m *mockProjectUseCase) Create(ctx context.Context, input *projectDomain.CreateProjectInput) (*projectDomain.Project, error) {
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

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// setupTestProjectHandler creates a test handler with mocked dependencies.
func setupTestProjectHandler(t *testing.T) (*ProjectHandler, *mockProjectUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := new(mockProjectUseCase)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewProjectHandler(mockUseCase, logger)

	return handler, mockUseCase
}

func TestProjectHandler_CreateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestProjectHandler(t)

		project := &projectDomain.Project{
			ID:        uuid.Must(uuid.NewV7()),
			Name:      "Billing platform",
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("Create", mock.Anything, mock.MatchedBy(func(input *projectDomain.CreateProjectInput) bool {
			return input.Name == "Billing platform"
		})).Return(project, nil)

		c, w := createTestContext(http.MethodPost, "/v1/projects",
			dto.CreateProjectRequest{Name: "Billing platform"})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.ProjectResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Billing platform", response.Name)
	})

	t.Run("MissingName", func(t *testing.T) {
		handler, mockUseCase := setupTestProjectHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/projects", dto.CreateProjectRequest{})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("NameTaken", func(t *testing.T) {
		handler, mockUseCase := setupTestProjectHandler(t)

		mockUseCase.On("Create", mock.Anything, mock.Anything).
			Return(nil, projectDomain.ErrProjectNameTaken)

		c, w := createTestContext(http.MethodPost, "/v1/projects",
			dto.CreateProjectRequest{Name: "Billing platform"})

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestProjectHandler_GetHandler(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestProjectHandler(t)

		projectID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Get", mock.Anything, projectID).Return(nil, projectDomain.ErrProjectNotFound)

		c, w := createTestContext(http.MethodGet, "/v1/projects/"+projectID.String(), nil)
		c.Params = gin.Params{{Key: "project_id", Value: projectID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidProjectID", func(t *testing.T) {
		handler, mockUseCase := setupTestProjectHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/projects/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "project_id", Value: "not-a-uuid"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestProjectHandler_ListHandler(t *testing.T) {
	t.Run("Success_EmptyList", func(t *testing.T) {
		handler, mockUseCase := setupTestProjectHandler(t)

		mockUseCase.On("List", mock.Anything).Return([]*projectDomain.Project{}, nil)

		c, w := createTestContext(http.MethodGet, "/v1/projects", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListProjectsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Empty(t, response.Projects)
	})
}
