// Package repository provides PostgreSQL and MySQL persistence for API keys.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/julianstoll1/access-dashboard/internal/apikey/domain"
	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
)

// legacySingleKeyConstraint is the unique index name from deployments that
// predate multi-key projects. Violations get an actionable message instead
// of the raw constraint name.
const legacySingleKeyConstraint = "api_keys_project_id_single_key"

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey into the PostgreSQL database.
// Unique violations on the per-project name index surface as
// ErrAPIKeyNameTaken; violations of the legacy single-key index surface
// as ErrProjectKeyLimit.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (id, project_id, name, description, status, usage_count, last_used_at, key_hash, key_encrypted, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		apiKey.ID,
		apiKey.ProjectID,
		apiKey.Name,
		apiKey.Description,
		string(apiKey.Status),
		apiKey.UsageCount,
		apiKey.LastUsedAt,
		apiKey.KeyHash,
		apiKey.KeyEncrypted,
		apiKey.CreatedAt,
		apiKey.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), legacySingleKeyConstraint) {
			return apikeyDomain.ErrProjectKeyLimit
		}
		if isPostgreSQLUniqueViolation(err) {
			return apikeyDomain.ErrAPIKeyNameTaken
		}
		return apperrors.Wrap(err, "failed to create api key")
	}

	return nil
}

// Get retrieves an APIKey by project and id. Returns ErrAPIKeyNotFound if no
// row exists for the given id/project pair.
func (p *PostgreSQLAPIKeyRepository) Get(
	ctx context.Context,
	projectID, keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, project_id, name, description, status, usage_count, last_used_at, key_hash, key_encrypted, created_at, updated_at
			  FROM api_keys
			  WHERE project_id = $1 AND id = $2`

	var apiKey apikeyDomain.APIKey
	var status string
	err := querier.QueryRowContext(ctx, query, projectID, keyID).Scan(
		&apiKey.ID,
		&apiKey.ProjectID,
		&apiKey.Name,
		&apiKey.Description,
		&status,
		&apiKey.UsageCount,
		&apiKey.LastUsedAt,
		&apiKey.KeyHash,
		&apiKey.KeyEncrypted,
		&apiKey.CreatedAt,
		&apiKey.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}

	apiKey.Status = apikeyDomain.Status(status)

	return &apiKey, nil
}

// ExistsWithName reports whether the project already has a key with the given
// name, comparing case-insensitively. excludeID skips the row being rotated.
func (p *PostgreSQLAPIKeyRepository) ExistsWithName(
	ctx context.Context,
	projectID uuid.UUID,
	name string,
	excludeID *uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				  SELECT 1 FROM api_keys
				  WHERE project_id = $1 AND LOWER(name) = LOWER($2) AND ($3::uuid IS NULL OR id != $3)
			  )`

	var exists bool
	err := querier.QueryRowContext(ctx, query, projectID, name, excludeID).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check api key name")
	}

	return exists, nil
}

// List retrieves all API keys for a project ordered by created_at ascending.
// Returns empty slice if the project has no keys.
func (p *PostgreSQLAPIKeyRepository) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, project_id, name, description, status, usage_count, last_used_at, key_hash, key_encrypted, created_at, updated_at
			  FROM api_keys
			  WHERE project_id = $1
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	apiKeys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		var apiKey apikeyDomain.APIKey
		var status string

		err := rows.Scan(
			&apiKey.ID,
			&apiKey.ProjectID,
			&apiKey.Name,
			&apiKey.Description,
			&status,
			&apiKey.UsageCount,
			&apiKey.LastUsedAt,
			&apiKey.KeyHash,
			&apiKey.KeyEncrypted,
			&apiKey.CreatedAt,
			&apiKey.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}

		apiKey.Status = apikeyDomain.Status(status)
		apiKeys = append(apiKeys, &apiKey)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}

	return apiKeys, nil
}

// Delete removes an APIKey by project and id. Returns ErrAPIKeyNotFound if no
// row was deleted.
func (p *PostgreSQLAPIKeyRepository) Delete(
	ctx context.Context,
	projectID, keyID uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM api_keys WHERE project_id = $1 AND id = $2`

	result, err := querier.ExecContext(ctx, query, projectID, keyID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return apikeyDomain.ErrAPIKeyNotFound
	}

	return nil
}

// TouchByHash atomically increments usage_count and stamps last_used_at for
// the active key matching the hash, returning the updated row. The single
// UPDATE closes the read-modify-write race between concurrent authentications.
// Returns ErrAPIKeyNotFound if no active key matches.
func (p *PostgreSQLAPIKeyRepository) TouchByHash(
	ctx context.Context,
	keyHash string,
	usedAt time.Time,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE api_keys
			  SET usage_count = usage_count + 1, last_used_at = $2
			  WHERE key_hash = $1 AND status = 'active'
			  RETURNING id, project_id, name, description, status, usage_count, last_used_at, key_hash, key_encrypted, created_at, updated_at`

	var apiKey apikeyDomain.APIKey
	var status string
	err := querier.QueryRowContext(ctx, query, keyHash, usedAt).Scan(
		&apiKey.ID,
		&apiKey.ProjectID,
		&apiKey.Name,
		&apiKey.Description,
		&status,
		&apiKey.UsageCount,
		&apiKey.LastUsedAt,
		&apiKey.KeyHash,
		&apiKey.KeyEncrypted,
		&apiKey.CreatedAt,
		&apiKey.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to touch api key")
	}

	apiKey.Status = apikeyDomain.Status(status)

	return &apiKey, nil
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

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}
