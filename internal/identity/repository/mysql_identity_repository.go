package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/ghostpass/internal/database"
	apperrors "github.com/allisson/ghostpass/internal/errors"
	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
)

// MySQLIdentityRepository implements Identity persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLIdentityRepository struct {
	db *sql.DB
}

// Get retrieves an identity by ID. Returns ErrIdentityNotFound if no row exists.
func (m *MySQLIdentityRepository) Get(ctx context.Context, id uuid.UUID) (*identityDomain.Identity, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal identity id")
	}

	query := `SELECT id, email, role, created_at FROM identities WHERE id = ?`

	var identity identityDomain.Identity
	var rowID []byte
	var role string

	err = querier.QueryRowContext(ctx, query, idBinary).Scan(
		&rowID,
		&identity.Email,
		&role,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identityDomain.ErrIdentityNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get identity")
	}

	if err := identity.ID.UnmarshalBinary(rowID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal identity id")
	}

	identity.Role = identityDomain.Role(role)
	return &identity, nil
}

// UpsertRole inserts the identity or updates email and role of an existing one.
func (m *MySQLIdentityRepository) UpsertRole(ctx context.Context, identity *identityDomain.Identity) error {
	querier := database.GetTx(ctx, m.db)

	id, err := identity.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal identity id")
	}

	query := `INSERT INTO identities (id, email, role, created_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE email = VALUES(email), role = VALUES(role)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		identity.Email,
		string(identity.Role),
		identity.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert identity")
	}
	return nil
}

// NewMySQLIdentityRepository creates a new MySQL Identity repository.
func NewMySQLIdentityRepository(db *sql.DB) *MySQLIdentityRepository {
	return &MySQLIdentityRepository{db: db}
}
