package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
)

// mockAuditLogRepository is a testify mock for AuditLogRepository.
type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(ctx context.Context, auditLog *auditDomain.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *mockAuditLogRepository) List(ctx context.Context, projectID uuid.UUID, limit int) ([]*auditDomain.AuditLog, error) {
	args := m.Called(ctx, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditLog), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuditLogUseCase_Record(t *testing.T) {
	projectID := uuid.Must(uuid.NewV7())
	entityID := uuid.Must(uuid.NewV7())

	t.Run("PopulatesIdentityAndTimestamp", func(t *testing.T) {
		repo := new(mockAuditLogRepository)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(entry *auditDomain.AuditLog) bool {
			return entry.ID != uuid.Nil &&
				entry.ProjectID == projectID &&
				entry.UserID == nil &&
				entry.EntityType == auditDomain.EntityRole &&
				entry.EntityID != nil && *entry.EntityID == entityID &&
				entry.Action == auditDomain.ActionCreated &&
				!entry.CreatedAt.IsZero()
		})).Return(nil)

		uc := NewAuditLogUseCase(repo, testLogger())
		uc.Record(context.Background(), projectID, auditDomain.EntityRole, &entityID, auditDomain.ActionCreated, map[string]any{"name": "Editors"})

		repo.AssertExpectations(t)
	})

	t.Run("ActingOperatorTakenFromContext", func(t *testing.T) {
		repo := new(mockAuditLogRepository)
		userID := uuid.Must(uuid.NewV7())
		ctx := auditDomain.WithUserID(context.Background(), userID)

		repo.On("Create", ctx, mock.MatchedBy(func(entry *auditDomain.AuditLog) bool {
			return entry.UserID != nil && *entry.UserID == userID
		})).Return(nil)

		uc := NewAuditLogUseCase(repo, testLogger())
		uc.Record(ctx, projectID, auditDomain.EntityPermission, &entityID, auditDomain.ActionUpdated, nil)

		repo.AssertExpectations(t)
	})

	t.Run("StoreFailureIsSwallowed", func(t *testing.T) {
		repo := new(mockAuditLogRepository)

		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		uc := NewAuditLogUseCase(repo, testLogger())

		// Record has no error return; the failure must not panic or propagate
		uc.Record(context.Background(), projectID, auditDomain.EntityAPIKey, &entityID, auditDomain.ActionDeleted, nil)

		repo.AssertExpectations(t)
	})
}

func TestAuditLogUseCase_List(t *testing.T) {
	projectID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		repo := new(mockAuditLogRepository)

		auditLogs := []*auditDomain.AuditLog{
			{
				ID:         uuid.Must(uuid.NewV7()),
				ProjectID:  projectID,
				EntityType: auditDomain.EntityAPIKey,
				Action:     auditDomain.ActionCreated,
				CreatedAt:  time.Now().UTC(),
			},
		}

		repo.On("List", mock.Anything, projectID, 200).Return(auditLogs, nil)

		uc := NewAuditLogUseCase(repo, testLogger())
		result, err := uc.List(context.Background(), projectID, 200)

		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("StoreFailurePropagates", func(t *testing.T) {
		repo := new(mockAuditLogRepository)

		repo.On("List", mock.Anything, projectID, 200).Return(nil, errors.New("connection refused"))

		uc := NewAuditLogUseCase(repo, testLogger())
		result, err := uc.List(context.Background(), projectID, 200)

		assert.Nil(t, result)
		assert.Error(t, err)
	})
}
