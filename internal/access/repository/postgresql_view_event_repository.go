package repository

import (
	"context"
	"database/sql"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	"github.com/allisson/ghostpass/internal/database"
	apperrors "github.com/allisson/ghostpass/internal/errors"
)

// PostgreSQLViewEventRepository appends profile view events in PostgreSQL.
type PostgreSQLViewEventRepository struct {
	db *sql.DB
}

// Create inserts a new ViewEvent. An empty viewer IP is stored as NULL.
func (p *PostgreSQLViewEventRepository) Create(ctx context.Context, event *accessDomain.ViewEvent) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO profile_views (id, profile_id, token_id, viewer_ip, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.ProfileID,
		event.TokenID,
		nullString(event.ViewerIP),
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create profile view")
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NewPostgreSQLViewEventRepository creates a new PostgreSQL ViewEvent repository.
func NewPostgreSQLViewEventRepository(db *sql.DB) *PostgreSQLViewEventRepository {
	return &PostgreSQLViewEventRepository{db: db}
}
