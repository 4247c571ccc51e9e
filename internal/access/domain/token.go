// Package domain defines the access-token lifecycle model: purposes and their
// policies, the stored token row, and the presentation decision.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/ghostpass/internal/errors"
)

// Purpose names the token class. Each purpose carries its own issuance policy.
type Purpose string

const (
	// PurposeProfileView shares a profile through a QR code.
	PurposeProfileView Purpose = "profile_view"
	// PurposeVenueAdmission admits a member at a venue door.
	PurposeVenueAdmission Purpose = "venue_admission"
	// PurposeGhostShare is a time-boxed anonymous sharing session (the ghost pass).
	PurposeGhostShare Purpose = "ghost_share"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeProfileView, PurposeVenueAdmission, PurposeGhostShare:
		return true
	}
	return false
}

// Policy is the per-purpose issuance and consumption policy.
type Policy struct {
	// TTL is applied when the issuer doesn't request a lifetime.
	TTL time.Duration
	// MaxTTL bounds a requested lifetime.
	MaxTTL time.Duration
	// Reusable tokens may be read repeatedly until expiry; others are strict single-use.
	Reusable bool
}

// ResolveTTL returns the lifetime to apply for a request. Zero means the default;
// anything outside (0, MaxTTL] is rejected.
func (p Policy) ResolveTTL(requested time.Duration) (time.Duration, error) {
	if requested == 0 {
		return p.TTL, nil
	}
	if requested < 0 || requested > p.MaxTTL {
		return 0, errors.Wrapf(ErrInvalidTTL, "requested %s, maximum %s", requested, p.MaxTTL)
	}
	return requested, nil
}

// Policies maps each purpose to its policy.
type Policies map[Purpose]Policy

// For returns the policy of purpose. Unknown purposes are ErrInvalidPurpose.
func (p Policies) For(purpose Purpose) (Policy, error) {
	policy, ok := p[purpose]
	if !ok || !purpose.Valid() {
		return Policy{}, ErrInvalidPurpose
	}
	return policy, nil
}

// AccessToken is a stored bearer credential granting a view of one profile.
// Only the SHA-256 hash of the bearer value is persisted.
type AccessToken struct {
	ID               uuid.UUID
	TokenHash        string
	ProfileID        uuid.UUID
	OwnerID          uuid.UUID
	Purpose          Purpose
	IssuedAt         time.Time
	ExpiresAt        time.Time
	UsedAt           *time.Time
	RevokedAt        *time.Time
	RevocationReason string
}

// IsRevoked reports whether the token was explicitly invalidated.
func (t *AccessToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired reports whether now is at or past the expiry instant.
func (t *AccessToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
