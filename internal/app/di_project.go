package app

import (
	"fmt"

	projectHTTP "github.com/julianstoll1/access-dashboard/internal/project/http"
	projectRepository "github.com/julianstoll1/access-dashboard/internal/project/repository"
	projectUseCase "github.com/julianstoll1/access-dashboard/internal/project/usecase"
)

// ProjectRepository returns the project repository based on database driver.
func (c *Container) ProjectRepository() (projectUseCase.ProjectRepository, error) {
	var err error
	c.projectRepoInit.Do(func() {
		c.projectRepo, err = c.initProjectRepository()
		if err != nil {
			c.initErrors["projectRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["projectRepo"]; exists {
		return nil, storedErr
	}
	return c.projectRepo, nil
}

// ProjectUseCase returns the project use case.
func (c *Container) ProjectUseCase() (projectUseCase.ProjectUseCase, error) {
	var err error
	c.projectUseCaseInit.Do(func() {
		c.projectUseCase, err = c.initProjectUseCase()
		if err != nil {
			c.initErrors["projectUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["projectUseCase"]; exists {
		return nil, storedErr
	}
	return c.projectUseCase, nil
}

// ProjectHandler returns the HTTP handler for project management.
func (c *Container) ProjectHandler() (*projectHTTP.ProjectHandler, error) {
	var err error
	c.projectHandlerInit.Do(func() {
		c.projectHandler, err = c.initProjectHandler()
		if err != nil {
			c.initErrors["projectHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["projectHandler"]; exists {
		return nil, storedErr
	}
	return c.projectHandler, nil
}

// initProjectRepository creates the project repository based on the database driver.
func (c *Container) initProjectRepository() (projectUseCase.ProjectRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for project repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return projectRepository.NewPostgreSQLProjectRepository(db), nil
	case "mysql":
		return projectRepository.NewMySQLProjectRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initProjectUseCase creates the project use case with all its dependencies.
func (c *Container) initProjectUseCase() (projectUseCase.ProjectUseCase, error) {
	projectRepo, err := c.ProjectRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get project repository for project use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for project use case: %w", err)
	}

	baseUseCase := projectUseCase.NewProjectUseCase(projectRepo, auditLogUseCase)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for project use case: %w", err)
		}
		return projectUseCase.NewProjectUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initProjectHandler creates the project HTTP handler with all its dependencies.
func (c *Container) initProjectHandler() (*projectHTTP.ProjectHandler, error) {
	useCase, err := c.ProjectUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get project use case for project handler: %w", err)
	}

	return projectHTTP.NewProjectHandler(useCase, c.Logger()), nil
}
