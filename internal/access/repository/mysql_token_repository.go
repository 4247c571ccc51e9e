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

// MySQLTokenRepository implements AccessToken persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

func (m *MySQLTokenRepository) scan(row rowScanner) (*accessDomain.AccessToken, error) {
	var token accessDomain.AccessToken
	var idBinary, profileIDBinary, ownerIDBinary []byte
	var purpose string

	err := row.Scan(
		&idBinary,
		&token.TokenHash,
		&profileIDBinary,
		&ownerIDBinary,
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

	if err := token.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token id")
	}
	if err := token.ProfileID.UnmarshalBinary(profileIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token profile_id")
	}
	if err := token.OwnerID.UnmarshalBinary(ownerIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token owner_id")
	}

	token.Purpose = accessDomain.Purpose(purpose)
	return &token, nil
}

// Create inserts a new AccessToken using BINARY(16) for UUIDs. Only the token hash is stored.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *accessDomain.AccessToken) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access token id")
	}
	profileID, err := token.ProfileID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access token profile_id")
	}
	ownerID, err := token.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access token owner_id")
	}

	query := `INSERT INTO access_tokens (` + tokenColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		profileID,
		ownerID,
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
func (m *MySQLTokenRepository) Get(ctx context.Context, tokenID uuid.UUID) (*accessDomain.AccessToken, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal access token id")
	}

	query := `SELECT ` + tokenColumns + ` FROM access_tokens WHERE id = ?`

	token, err := m.scan(querier.QueryRowContext(ctx, query, id))
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
func (m *MySQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*accessDomain.AccessToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + tokenColumns + ` FROM access_tokens WHERE token_hash = ?`

	token, err := m.scan(querier.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access token by hash")
	}
	return token, nil
}

// ListByProfile returns a profile's tokens ordered by issued_at descending.
func (m *MySQLTokenRepository) ListByProfile(
	ctx context.Context,
	profileID uuid.UUID,
	offset, limit int,
) ([]*accessDomain.AccessToken, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := profileID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal profile id")
	}

	query := `SELECT ` + tokenColumns + ` FROM access_tokens
			  WHERE profile_id = ?
			  ORDER BY issued_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	tokens := make([]*accessDomain.AccessToken, 0)
	for rows.Next() {
		token, err := m.scan(rows)
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
func (m *MySQLTokenRepository) MarkUsed(ctx context.Context, tokenID uuid.UUID, now time.Time) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal access token id")
	}

	query := `UPDATE access_tokens SET used_at = ?
			  WHERE id = ? AND used_at IS NULL AND revoked_at IS NULL AND expires_at > ?`

	result, err := querier.ExecContext(ctx, query, now, id, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to mark access token used")
	}
	return affected(result)
}

// TouchUsed records the first use of a live token, keeping an existing used_at.
// MySQL reports zero affected rows when used_at was already set.
func (m *MySQLTokenRepository) TouchUsed(ctx context.Context, tokenID uuid.UUID, now time.Time) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal access token id")
	}

	query := `UPDATE access_tokens SET used_at = COALESCE(used_at, ?)
			  WHERE id = ? AND revoked_at IS NULL AND expires_at > ?`

	result, err := querier.ExecContext(ctx, query, now, id, now)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to touch access token")
	}
	return affected(result)
}

// Revoke sets revoked_at and the reason unless the token is already revoked.
func (m *MySQLTokenRepository) Revoke(
	ctx context.Context,
	tokenID uuid.UUID,
	reason string,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal access token id")
	}

	query := `UPDATE access_tokens SET revoked_at = ?, revocation_reason = ?
			  WHERE id = ? AND revoked_at IS NULL`

	result, err := querier.ExecContext(ctx, query, now, reason, id)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to revoke access token")
	}
	return affected(result)
}

// DeleteExpired removes tokens whose expires_at is before olderThan.
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM access_tokens WHERE expires_at < ?`, olderThan)
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
func (m *MySQLTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM access_tokens WHERE expires_at < ?`, olderThan).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired access tokens")
	}
	return count, nil
}

// NewMySQLTokenRepository creates a new MySQL AccessToken repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
