package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
)

// MySQLProjectRepository implements Project persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLProjectRepository struct {
	db *sql.DB
}

const mysqlProjectColumns = `id, name, description, created_at, updated_at`

// Create inserts a new Project using BINARY(16) for the UUID. Duplicate entry
// errors (MySQL error 1062) surface as ErrProjectNameTaken.
func (m *MySQLProjectRepository) Create(ctx context.Context, project *projectDomain.Project) error {
	querier := database.GetTx(ctx, m.db)

	id, err := project.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal project id")
	}

	query := `INSERT INTO projects (` + mysqlProjectColumns + `)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		project.Name,
		project.Description,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return projectDomain.ErrProjectNameTaken
		}
		return apperrors.Wrap(err, "failed to create project")
	}

	return nil
}

// Get retrieves a Project by id. Returns ErrProjectNotFound if no row exists.
func (m *MySQLProjectRepository) Get(ctx context.Context, projectID uuid.UUID) (*projectDomain.Project, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal project id")
	}

	query := `SELECT ` + mysqlProjectColumns + `
			  FROM projects
			  WHERE id = ?`

	var project projectDomain.Project
	var idBinary []byte
	err = querier.QueryRowContext(ctx, query, projectIDBinary).Scan(
		&idBinary,
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

	if err := project.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal project id")
	}

	return &project, nil
}

// ExistsWithName reports whether a project with the given name exists.
// The utf8mb4 collation makes the comparison case-insensitive.
func (m *MySQLProjectRepository) ExistsWithName(ctx context.Context, name string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (SELECT 1 FROM projects WHERE name = ?)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check project name")
	}

	return exists, nil
}

// List retrieves all projects ordered by created_at ascending.
// Returns empty slice if no projects exist.
func (m *MySQLProjectRepository) List(ctx context.Context) ([]*projectDomain.Project, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlProjectColumns + `
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
		var idBinary []byte

		err := rows.Scan(
			&idBinary,
			&project.Name,
			&project.Description,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan project")
		}

		if err := project.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal project id")
		}

		projects = append(projects, &project)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate projects")
	}

	return projects, nil
}

// isMySQLDuplicateEntry checks if the error is a duplicate entry error (1062).
func isMySQLDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// NewMySQLProjectRepository creates a new MySQL Project repository.
func NewMySQLProjectRepository(db *sql.DB) *MySQLProjectRepository {
	return &MySQLProjectRepository{db: db}
}
