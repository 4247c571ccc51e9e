// Package repository implements access token, view event and audit log
// persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	"github.com/allisson/ghostpass/internal/database"
	apperrors "github.com/allisson/ghostpass/internal/errors"
)

const tokenColumns = `id, token_hash, profile_id, owner_id, purpose, issued_at, expires_at,
			  used_at, revoked_at, revocation_reason`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLTokenRepository implements AccessToken persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

func (p *PostgreSQLTokenRepository) scan(row rowScanner) (*accessDomain.AccessToken, error) {
	var token accessDomain.AccessToken
	var purpose string

	err := row.Scan(
		&token.ID,
		&token.TokenHash,
		&token.ProfileID,
		&token.OwnerID,
		&purpose,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.RevokedAt,
		&token.RevocationReason,
	)
	if err != nil {
		return nil, err
	}

	token.Purpose = accessDomain.Purpose(purpose)
	return &token, nil
}

// Create inserts a new AccessToken. Only the token hash is stored.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *accessDomain.AccessToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO access_tokens (` + tokenColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.ProfileID,
		token.OwnerID,
		string(token.Purpose),
		token.IssuedAt,
		token.ExpiresAt,
		token.UsedAt,
		token.RevokedAt,
		token.RevocationReason,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access token")
	}
	return nil
}

// Get retrieves an AccessToken by ID. Returns ErrTokenNotFound if the token doesn't exist.
func (p *PostgreSQLTokenRepository) Get(ctx context.Context, tokenID uuid.UUID) (*accessDomain.AccessToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + tokenColumns + ` FROM access_tokens WHERE id = $1`

	token, err := p.scan(querier.QueryRowContext(ctx, query, tokenID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access token")
	}
	return token, nil
}

// GetByTokenHash retrieves an AccessToken by the hash of its bearer value.
// Returns ErrTokenNotFound if no token matches.
func (p *PostgreSQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*accessDomain.AccessToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + tokenColumns + ` FROM access_tokens WHERE token_hash = $1`

	token, err := p.scan(querier.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access token by hash")
	}
	return token, nil
}

// ListByProfile returns a profile's tokens ordered by issued_at descending.
// Returns an empty slice if none are found.
func (p *PostgreSQLTokenRepository) ListByProfile(
	ctx context.Context,
	profileID uuid.UUID,
	offset, limit int,
) ([]*accessDomain.AccessToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + tokenColumns + ` FROM access_tokens
			  WHERE profile_id = $1
			  ORDER BY issued_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	tokens := make([]*accessDomain.AccessToken, 0)
	for rows.Next() {
		token, err := p.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access token")
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access tokens")
	}

	return tokens, nil
}

// MarkUsed sets used_at on an unused, unrevoked, unexpired token in one statement.
func (p *PostgreSQLTokenRepository) MarkUsed(ctx context.Context, tokenID uuid.UUID, now time.Time) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE access_tokens SET used_at = $2
			  WHERE id = $1 AND used_at IS NULL AND revoked_at IS NULL AND expires_at > $2`

	result, err := querier.ExecContext(ctx, query, tokenID, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to mark access token used")
	}
	return affected(result)
}

// TouchUsed records the first use of a live token, keeping an existing used_at.
func (p *PostgreSQLTokenRepository) TouchUsed(ctx context.Context, tokenID uuid.UUID, now time.Time) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE access_tokens SET used_at = COALESCE(used_at, $2)
			  WHERE id = $1 AND revoked_at IS NULL AND expires_at > $2`

	result, err := querier.ExecContext(ctx, query, tokenID, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to touch access token")
	}
	return affected(result)
}

// Revoke sets revoked_at and the reason unless the token is already revoked.
func (p *PostgreSQLTokenRepository) Revoke(
	ctx context.Context,
	tokenID uuid.UUID,
	reason string,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE access_tokens SET revoked_at = $3, revocation_reason = $2
			  WHERE id = $1 AND revoked_at IS NULL`

	result, err := querier.ExecContext(ctx, query, tokenID, reason, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to revoke access token")
	}
	return affected(result)
}

// DeleteExpired removes tokens whose expires_at is before olderThan.
func (p *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM access_tokens WHERE expires_at < $1`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired access tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// CountExpired counts tokens whose expires_at is before olderThan.
func (p *PostgreSQLTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM access_tokens WHERE expires_at < $1`, olderThan).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired access tokens")
	}
	return count, nil
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}
	return rows > 0, nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL AccessToken repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
