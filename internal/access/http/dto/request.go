// Package dto provides data transfer objects for the access-token HTTP endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	customValidation "github.com/allisson/ghostpass/internal/validation"
)

// maxTTLSeconds caps the ttlSeconds field before purpose policies apply.
const maxTTLSeconds = 7 * 24 * 60 * 60

var purposes = []any{
	string(accessDomain.PurposeProfileView),
	string(accessDomain.PurposeVenueAdmission),
	string(accessDomain.PurposeGhostShare),
}

// IssueTokenRequest contains the parameters for minting an access token.
type IssueTokenRequest struct {
	ProfileID  string `json:"profileId"`
	Purpose    string `json:"purpose"`
	TTLSeconds int    `json:"ttlSeconds"`
	IncludeQR  bool   `json:"includeQr"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProfileID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.Purpose,
			validation.In(purposes...),
		),
		validation.Field(&r.TTLSeconds,
			validation.Min(0),
			validation.Max(maxTTLSeconds),
		),
	)
}

// VerifyTokenRequest contains a presented token and the optional claimed profile.
type VerifyTokenRequest struct {
	Token     string `json:"token"`
	ProfileID string `json:"profileId"`
}

// Validate checks if the verify token request is valid.
func (r *VerifyTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.BearerToken,
		),
		validation.Field(&r.ProfileID,
			customValidation.UUID,
		),
	)
}

// ViewTokenRequest contains a presented token.
type ViewTokenRequest struct {
	Token string `json:"token"`
}

// Validate checks if the view token request is valid.
func (r *ViewTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.BearerToken,
		),
	)
}

// RevokeTokenRequest identifies a token by its durable id (the ghost reference).
type RevokeTokenRequest struct {
	GhostRef string `json:"ghost_ref"`
	Reason   string `json:"reason"`
}

// Validate checks if the revoke token request is valid.
func (r *RevokeTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GhostRef,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.Reason,
			customValidation.NotBlank,
			validation.Length(0, 500),
		),
	)
}
