// Package repository implements read access to member profiles for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/ghostpass/internal/database"
	apperrors "github.com/allisson/ghostpass/internal/errors"
	profileDomain "github.com/allisson/ghostpass/internal/profile/domain"
)

const profileColumns = `id, owner_id, member_id, full_name, email, status_color, privacy_mode,
			  avatar_url, bio, instagram_handle, sexual_preferences, date_of_birth, city,
			  verification_status, id_verified, status_expires_at, updated_at`

// PostgreSQLProfileRepository implements Profile reads for PostgreSQL.
type PostgreSQLProfileRepository struct {
	db *sql.DB
}

// Get retrieves a profile by ID. Returns ErrProfileNotFound if the profile doesn't exist.
func (p *PostgreSQLProfileRepository) Get(ctx context.Context, profileID uuid.UUID) (*profileDomain.Profile, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var profile profileDomain.Profile
	var privacyMode string

	err := querier.QueryRowContext(ctx, query, profileID).Scan(
		&profile.ID,
		&profile.OwnerID,
		&profile.MemberID,
		&profile.FullName,
		&profile.Email,
		&profile.StatusColor,
		&privacyMode,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.InstagramHandle,
		&profile.SexualPreferences,
		&profile.DateOfBirth,
		&profile.City,
		&profile.VerificationStatus,
		&profile.IDVerified,
		&profile.StatusExpiresAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profileDomain.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get profile")
	}

	profile.PrivacyMode = profileDomain.PrivacyMode(privacyMode)
	return &profile, nil
}

// NewPostgreSQLProfileRepository creates a new PostgreSQL Profile repository.
func NewPostgreSQLProfileRepository(db *sql.DB) *PostgreSQLProfileRepository {
	return &PostgreSQLProfileRepository{db: db}
}
