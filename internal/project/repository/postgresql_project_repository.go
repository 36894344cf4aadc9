// Package repository provides PostgreSQL and MySQL persistence for projects.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
)

// PostgreSQLProjectRepository implements Project persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLProjectRepository struct {
	db *sql.DB
}

const postgresProjectColumns = `id, name, description, created_at, updated_at`

// Create inserts a new Project. Unique violations on the name index surface
// as ErrProjectNameTaken.
func (p *PostgreSQLProjectRepository) Create(ctx context.Context, project *projectDomain.Project) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO projects (` + postgresProjectColumns + `)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		project.ID,
		project.Name,
		project.Description,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return projectDomain.ErrProjectNameTaken
		}
		return apperrors.Wrap(err, "failed to create project")
	}

	return nil
}

// Get retrieves a Project by id. Returns ErrProjectNotFound if no row exists.
func (p *PostgreSQLProjectRepository) Get(ctx context.Context, projectID uuid.UUID) (*projectDomain.Project, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresProjectColumns + `
			  FROM projects
			  WHERE id = $1`

	var project projectDomain.Project
	err := querier.QueryRowContext(ctx, query, projectID).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, projectDomain.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get project")
	}

	return &project, nil
}

// ExistsWithName reports whether a project with the given name exists,
// comparing case-insensitively.
func (p *PostgreSQLProjectRepository) ExistsWithName(ctx context.Context, name string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (SELECT 1 FROM projects WHERE LOWER(name) = LOWER($1))`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check project name")
	}

	return exists, nil
}

// List retrieves all projects ordered by created_at ascending.
// Returns empty slice if no projects exist.
func (p *PostgreSQLProjectRepository) List(ctx context.Context) ([]*projectDomain.Project, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresProjectColumns + `
			  FROM projects
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list projects")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	projects := make([]*projectDomain.Project, 0)
	for rows.Next() {
		var project projectDomain.Project

		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan project")
		}

		projects = append(projects, &project)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate projects")
	}

	return projects, nil
}

// isPostgreSQLUniqueViolation checks if the error is a unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLProjectRepository creates a new PostgreSQL Project repository.
func NewPostgreSQLProjectRepository(db *sql.DB) *PostgreSQLProjectRepository {
	return &PostgreSQLProjectRepository{db: db}
}
