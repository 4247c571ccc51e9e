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

// MySQLProfileRepository implements Profile reads for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLProfileRepository struct {
	db *sql.DB
}

// Get retrieves a profile by ID. Returns ErrProfileNotFound if the profile doesn't exist.
func (m *MySQLProfileRepository) Get(ctx context.Context, profileID uuid.UUID) (*profileDomain.Profile, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := profileID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal profile id")
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`

	var profile profileDomain.Profile
	var idBinary, ownerIDBinary []byte
	var privacyMode string

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBinary,
		&ownerIDBinary,
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

	if err := profile.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal profile id")
	}
	if err := profile.OwnerID.UnmarshalBinary(ownerIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal profile owner_id")
	}

	profile.PrivacyMode = profileDomain.PrivacyMode(privacyMode)
	return &profile, nil
}

// NewMySQLProfileRepository creates a new MySQL Profile repository.
func NewMySQLProfileRepository(db *sql.DB) *MySQLProfileRepository {
	return &MySQLProfileRepository{db: db}
}
