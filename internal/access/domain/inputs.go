package domain

import (
	"time"

	"github.com/google/uuid"

	profileDomain "github.com/allisson/ghostpass/internal/profile/domain"
)

// IssueTokenInput holds the parameters for minting a token. A zero TTL selects
// the purpose default.
type IssueTokenInput struct {
	ProfileID uuid.UUID
	Purpose   Purpose
	TTL       time.Duration
	IncludeQR bool
}

// IssueTokenOutput is returned once; PlainToken is never stored. QRCode is a PNG
// encoding of PlainToken, present when requested.
type IssueTokenOutput struct {
	ID         uuid.UUID
	PlainToken string
	ExpiresAt  time.Time
	ProfileID  uuid.UUID
	Purpose    Purpose
	QRCode     []byte
}

// VerifyTokenInput holds a presented token and the optional claimed profile.
type VerifyTokenInput struct {
	Token     string
	ProfileID *uuid.UUID
}

// VerifyTokenOutput carries the decision and, on ALLOW, the projected profile.
// Purpose is empty when no token matched.
type VerifyTokenOutput struct {
	Result         Decision
	Purpose        Purpose
	Profile        *profileDomain.ProfileView
	Badges         *profileDomain.Badges
	TokenExpiresAt *time.Time
}

// ViewTokenInput holds a presented token and the viewer's network origin.
type ViewTokenInput struct {
	Token    string
	ViewerIP string
}

// ViewTokenOutput is the projected profile and the token's expiry.
type ViewTokenOutput struct {
	Profile        *profileDomain.ProfileView
	TokenExpiresAt time.Time
}

// RevokeTokenInput identifies the token by its durable id, never its bearer value.
type RevokeTokenInput struct {
	TokenID   uuid.UUID
	Reason    string
	RequestID uuid.UUID
}
