// Package domain defines the member profile and its privacy-filtered projection.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PrivacyMode controls which profile fields are visible through an access token.
type PrivacyMode string

const (
	// PrivacyStandard exposes the extended field set.
	PrivacyStandard PrivacyMode = "standard"
	// PrivacyIncognito exposes only identifier, display name, email and status color.
	PrivacyIncognito PrivacyMode = "incognito"
)

// VerificationVerified is the verification status of a member who passed identity checks.
const VerificationVerified = "verified"

// Profile is the resource an access token grants a view of.
type Profile struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	MemberID    string
	FullName    string
	Email       string
	StatusColor string
	PrivacyMode PrivacyMode

	AvatarURL         string
	Bio               string
	InstagramHandle   string
	SexualPreferences string
	DateOfBirth       *time.Time
	City              string

	VerificationStatus string
	IDVerified         bool
	StatusExpiresAt    *time.Time
	UpdatedAt          time.Time
}

// IsIncognito reports whether the profile is in heightened-privacy mode.
// Unknown modes are treated as incognito.
func (p *Profile) IsIncognito() bool {
	return p.PrivacyMode != PrivacyStandard
}

// ExtendedProfile holds the fields hidden in incognito mode.
type ExtendedProfile struct {
	PrivacyMode        PrivacyMode
	AvatarURL          string
	Bio                string
	InstagramHandle    string
	SexualPreferences  string
	DateOfBirth        *time.Time
	City               string
	VerificationStatus string
	IDVerified         bool
	StatusExpiresAt    *time.Time
}

// ProfileView is the caller-visible projection of a profile.
// Extended is nil when the profile is incognito.
type ProfileView struct {
	ID          uuid.UUID
	MemberID    string
	FullName    string
	Email       string
	StatusColor string
	Extended    *ExtendedProfile
}

// Badges summarizes the verification state shown next to a projected profile.
type Badges struct {
	StatusValid bool
	IDVerified  bool
	StatusColor string
}

// Project returns the view of p permitted by p's own privacy mode.
func Project(p *Profile) *ProfileView {
	view := &ProfileView{
		ID:          p.ID,
		MemberID:    p.MemberID,
		FullName:    p.FullName,
		Email:       p.Email,
		StatusColor: p.StatusColor,
	}

	if p.IsIncognito() {
		return view
	}

	view.Extended = &ExtendedProfile{
		PrivacyMode:        p.PrivacyMode,
		AvatarURL:          p.AvatarURL,
		Bio:                p.Bio,
		InstagramHandle:    p.InstagramHandle,
		SexualPreferences:  p.SexualPreferences,
		DateOfBirth:        p.DateOfBirth,
		City:               p.City,
		VerificationStatus: p.VerificationStatus,
		IDVerified:         p.IDVerified,
		StatusExpiresAt:    p.StatusExpiresAt,
	}
	return view
}

// BadgesFor computes badges at instant now. A status is valid when the member is
// verified and the status has not lapsed.
func BadgesFor(p *Profile, now time.Time) Badges {
	statusValid := p.VerificationStatus == VerificationVerified &&
		(p.StatusExpiresAt == nil || now.Before(*p.StatusExpiresAt))

	return Badges{
		StatusValid: statusValid,
		IDVerified:  p.IDVerified,
		StatusColor: p.StatusColor,
	}
}
