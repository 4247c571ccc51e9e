package repository

import (
	"context"
	"database/sql"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	"github.com/allisson/ghostpass/internal/database"
	apperrors "github.com/allisson/ghostpass/internal/errors"
)

// MySQLViewEventRepository appends profile view events in MySQL.
// UUIDs are stored as BINARY(16).
type MySQLViewEventRepository struct {
	db *sql.DB
}

// Create inserts a new ViewEvent. An empty viewer IP is stored as NULL.
func (m *MySQLViewEventRepository) Create(ctx context.Context, event *accessDomain.ViewEvent) error {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal profile view id")
	}
	profileID, err := event.ProfileID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal profile view profile_id")
	}
	tokenID, err := event.TokenID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal profile view token_id")
	}

	query := `INSERT INTO profile_views (id, profile_id, token_id, viewer_ip, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, profileID, tokenID, nullString(event.ViewerIP), event.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create profile view")
	}
	return nil
}

// NewMySQLViewEventRepository creates a new MySQL ViewEvent repository.
func NewMySQLViewEventRepository(db *sql.DB) *MySQLViewEventRepository {
	return &MySQLViewEventRepository{db: db}
}
