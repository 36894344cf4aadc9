package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	apikeyDomain "github.com/julianstoll1/access-dashboard/internal/apikey/domain"
	"github.com/julianstoll1/access-dashboard/internal/database"
	apperrors "github.com/julianstoll1/access-dashboard/internal/errors"
)

// MySQLAPIKeyRepository implements APIKey persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey into the MySQL database using BINARY(16) for UUIDs.
// Duplicate entry errors (MySQL error 1062) on the per-project name index
// surface as ErrAPIKeyNameTaken; violations of the legacy single-key index
// surface as ErrProjectKeyLimit.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	id, err := apiKey.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	projectID, err := apiKey.ProjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key project_id")
	}

	query := `INSERT INTO api_keys (id, project_id, name, description, status, usage_count, last_used_at, key_hash, key_encrypted, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		projectID,
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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return apikeyDomain.ErrAPIKeyNameTaken
		}
		return apperrors.Wrap(err, "failed to create api key")
	}

	return nil
}

// Get retrieves an APIKey by project and id. Returns ErrAPIKeyNotFound if no
// row exists for the given id/project pair.
func (m *MySQLAPIKeyRepository) Get(
	ctx context.Context,
	projectID, keyID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal project id")
	}

	keyIDBinary, err := keyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api key id")
	}

	query := `SELECT id, project_id, name, description, status, usage_count, last_used_at, key_hash, key_encrypted, created_at, updated_at
			  FROM api_keys
			  WHERE project_id = ? AND id = ?`

	row := querier.QueryRowContext(ctx, query, projectIDBinary, keyIDBinary)
	apiKey, err := scanMySQLAPIKeyRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}

	return apiKey, nil
}

// ExistsWithName reports whether the project already has a key with the given
// name. The utf8mb4 collation makes the comparison case-insensitive.
// excludeID skips the row being rotated.
func (m *MySQLAPIKeyRepository) ExistsWithName(
	ctx context.Context,
	projectID uuid.UUID,
	name string,
	excludeID *uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal project id")
	}

	query := `SELECT EXISTS (SELECT 1 FROM api_keys WHERE project_id = ? AND name = ?`
	args := []interface{}{projectIDBinary, name}

	if excludeID != nil {
		excludeIDBinary, err := excludeID.MarshalBinary()
		if err != nil {
			return false, apperrors.Wrap(err, "failed to marshal exclude id")
		}
		query += ` AND id != ?`
		args = append(args, excludeIDBinary)
	}
	query += `)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check api key name")
	}

	return exists, nil
}

// List retrieves all API keys for a project ordered by created_at ascending.
// Returns empty slice if the project has no keys.
func (m *MySQLAPIKeyRepository) List(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal project id")
	}

	query := `SELECT id, project_id, name, description, status, usage_count, last_used_at, key_hash, key_encrypted, created_at, updated_at
			  FROM api_keys
			  WHERE project_id = ?
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, projectIDBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	apiKeys := make([]*apikeyDomain.APIKey, 0)
	for rows.Next() {
		apiKey, err := scanMySQLAPIKeyRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key")
		}
		apiKeys = append(apiKeys, apiKey)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate api keys")
	}

	return apiKeys, nil
}

// Delete removes an APIKey by project and id. Returns ErrAPIKeyNotFound if no
// row was deleted.
func (m *MySQLAPIKeyRepository) Delete(
	ctx context.Context,
	projectID, keyID uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	projectIDBinary, err := projectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal project id")
	}

	keyIDBinary, err := keyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	query := `DELETE FROM api_keys WHERE project_id = ? AND id = ?`

	result, err := querier.ExecContext(ctx, query, projectIDBinary, keyIDBinary)
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
// the active key matching the hash. MySQL has no UPDATE ... RETURNING, so the
// updated row is read back in a second statement; the increment itself is
// still a single atomic UPDATE. Returns ErrAPIKeyNotFound if no active key
// matches.
func (m *MySQLAPIKeyRepository) TouchByHash(
	ctx context.Context,
	keyHash string,
	usedAt time.Time,
) (*apikeyDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	updateQuery := `UPDATE api_keys
					SET usage_count = usage_count + 1, last_used_at = ?
					WHERE key_hash = ? AND status = 'active'`

	result, err := querier.ExecContext(ctx, updateQuery, usedAt, keyHash)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to touch api key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return nil, apikeyDomain.ErrAPIKeyNotFound
	}

	selectQuery := `SELECT id, project_id, name, description, status, usage_count, last_used_at, key_hash, key_encrypted, created_at, updated_at
					FROM api_keys
					WHERE key_hash = ?`

	row := querier.QueryRowContext(ctx, selectQuery, keyHash)
	apiKey, err := scanMySQLAPIKeyRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get touched api key")
	}

	return apiKey, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanMySQLAPIKeyRow scans an api_keys row converting BINARY(16) columns back
// to UUIDs. Returns the raw scan error so callers can detect sql.ErrNoRows.
func scanMySQLAPIKeyRow(row rowScanner) (*apikeyDomain.APIKey, error) {
	var apiKey apikeyDomain.APIKey
	var idBinary, projectIDBinary []byte
	var status string

	err := row.Scan(
		&idBinary,
		&projectIDBinary,
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
		return nil, err
	}

	if err := apiKey.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api key id")
	}

	if err := apiKey.ProjectID.UnmarshalBinary(projectIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal api key project_id")
	}

	apiKey.Status = apikeyDomain.Status(status)

	return &apiKey, nil
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}
