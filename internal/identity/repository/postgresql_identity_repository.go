// Package repository implements identity role persistence for PostgreSQL and MySQL.
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

// PostgreSQLIdentityRepository implements Identity persistence for PostgreSQL.
type PostgreSQLIdentityRepository struct {
	db *sql.DB
}

// Get retrieves an identity by ID. Returns ErrIdentityNotFound if no row exists.
func (p *PostgreSQLIdentityRepository) Get(ctx context.Context, id uuid.UUID) (*identityDomain.Identity, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, email, role, created_at FROM identities WHERE id = $1`

	var identity identityDomain.Identity
	var role string

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&identity.ID,
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

	identity.Role = identityDomain.Role(role)
	return &identity, nil
}

// UpsertRole inserts the identity or updates email and role of an existing one.
// created_at is kept from the first insert.
func (p *PostgreSQLIdentityRepository) UpsertRole(ctx context.Context, identity *identityDomain.Identity) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO identities (id, email, role, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, role = EXCLUDED.role`

	_, err := querier.ExecContext(
		ctx,
		query,
		identity.ID,
		identity.Email,
		string(identity.Role),
		identity.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert identity")
	}
	return nil
}

// NewPostgreSQLIdentityRepository creates a new PostgreSQL Identity repository.
func NewPostgreSQLIdentityRepository(db *sql.DB) *PostgreSQLIdentityRepository {
	return &PostgreSQLIdentityRepository{db: db}
}
