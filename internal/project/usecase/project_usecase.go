package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
)

// projectUseCase implements the ProjectUseCase interface.
type projectUseCase struct {
	projectRepo ProjectRepository
	auditor     AuditRecorder
}

// Create adds a new project.
//
// The name check is a separate read from the insert; the unique index backs
// it up and the repository translates a constraint race into the same
// conflict error. On success one "created" audit entry is appended under the
// new project's own id.
func (p *projectUseCase) Create(
	ctx context.Context,
	input *projectDomain.CreateProjectInput,
) (*projectDomain.Project, error) {
	description := input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	taken, err := p.projectRepo.ExistsWithName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, projectDomain.ErrProjectNameTaken
	}

	project := &projectDomain.Project{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        input.Name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := p.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	p.auditor.Record(ctx, project.ID, auditDomain.EntityProject, &project.ID, auditDomain.ActionCreated, map[string]any{
		"name": project.Name,
	})

	return project, nil
}

// Get retrieves a project by id.
func (p *projectUseCase) Get(ctx context.Context, projectID uuid.UUID) (*projectDomain.Project, error) {
	return p.projectRepo.Get(ctx, projectID)
}

// List retrieves all projects.
func (p *projectUseCase) List(ctx context.Context) ([]*projectDomain.Project, error) {
	return p.projectRepo.List(ctx)
}

// NewProjectUseCase creates a new ProjectUseCase with the provided dependencies.
func NewProjectUseCase(projectRepo ProjectRepository, auditor AuditRecorder) ProjectUseCase {
	return &projectUseCase{
		projectRepo: projectRepo,
		auditor:     auditor,
	}
}
