// Package usecase implements business logic orchestration for projects.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	// Create inserts a new project. Returns ErrProjectNameTaken on a
	// duplicate name.
	Create(ctx context.Context, project *projectDomain.Project) error

	// Get retrieves a project by id.
	Get(ctx context.Context, projectID uuid.UUID) (*projectDomain.Project, error)

	// ExistsWithName reports whether a project with the given name exists
	// (case-insensitive).
	ExistsWithName(ctx context.Context, name string) (bool, error)

	// List retrieves all projects.
	List(ctx context.Context) ([]*projectDomain.Project, error)
}

// AuditRecorder appends audit trail entries for completed mutations.
// Satisfied by the audit use case; failures never propagate to the caller.
type AuditRecorder interface {
	Record(
		ctx context.Context,
		projectID uuid.UUID,
		entityType auditDomain.EntityType,
		entityID *uuid.UUID,
		action auditDomain.Action,
		metadata map[string]any,
	)
}

// ProjectUseCase manages the project lifecycle.
type ProjectUseCase interface {
	// Create adds a new project.
	Create(ctx context.Context, input *projectDomain.CreateProjectInput) (*projectDomain.Project, error)

	// Get retrieves a project by id.
	Get(ctx context.Context, projectID uuid.UUID) (*projectDomain.Project, error)

	// List retrieves all projects.
	List(ctx context.Context) ([]*projectDomain.Project, error)
}
