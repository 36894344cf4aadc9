package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/metrics"
	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
)

// projectUseCaseWithMetrics decorates ProjectUseCase with metrics instrumentation.
type projectUseCaseWithMetrics struct {
	next    ProjectUseCase
	metrics metrics.BusinessMetrics
}

// NewProjectUseCaseWithMetrics wraps a ProjectUseCase with metrics recording.
func NewProjectUseCaseWithMetrics(useCase ProjectUseCase, m metrics.BusinessMetrics) ProjectUseCase {
	return &projectUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *projectUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "project", operation, status)
	p.metrics.RecordDuration(ctx, "project", operation, time.Since(start), status)
}

// Create records metrics for project creation operations.
func (p *projectUseCaseWithMetrics) Create(
	ctx context.Context,
	input *projectDomain.CreateProjectInput,
) (*projectDomain.Project, error) {
	start := time.Now()
	project, err := p.next.Create(ctx, input)
	p.record(ctx, "project_create", start, err)
	return project, err
}

// Get records metrics for project read operations.
func (p *projectUseCaseWithMetrics) Get(ctx context.Context, projectID uuid.UUID) (*projectDomain.Project, error) {
	start := time.Now()
	project, err := p.next.Get(ctx, projectID)
	p.record(ctx, "project_get", start, err)
	return project, err
}

// List records metrics for project list operations.
func (p *projectUseCaseWithMetrics) List(ctx context.Context) ([]*projectDomain.Project, error) {
	start := time.Now()
	projects, err := p.next.List(ctx)
	p.record(ctx, "project_list", start, err)
	return projects, err
}
