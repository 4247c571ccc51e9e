package dto

import (
	"encoding/base64"
	"time"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	accessUseCase "github.com/allisson/ghostpass/internal/access/usecase"
	profileDomain "github.com/allisson/ghostpass/internal/profile/domain"
)

// IssueTokenResponse contains a freshly minted token.
// SECURITY: The token is only returned once and must be saved securely.
type IssueTokenResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	ProfileID string    `json:"profileId"`
	Purpose   string    `json:"purpose"`
	QRCode    string    `json:"qrCode,omitempty"`
}

// MapIssueTokenOutputToResponse converts issuance output to an API response.
// The QR code PNG is base64 encoded.
func MapIssueTokenOutputToResponse(output *accessDomain.IssueTokenOutput) IssueTokenResponse {
	response := IssueTokenResponse{
		ID:        output.ID.String(),
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
		ProfileID: output.ProfileID.String(),
		Purpose:   string(output.Purpose),
	}
	if len(output.QRCode) > 0 {
		response.QRCode = base64.StdEncoding.EncodeToString(output.QRCode)
	}
	return response
}

// ExtendedProfileResponse holds the fields present only for standard-mode profiles.
type ExtendedProfileResponse struct {
	PrivacyMode        string     `json:"privacy_mode"`
	AvatarURL          string     `json:"avatar_url"`
	Bio                string     `json:"bio"`
	InstagramHandle    string     `json:"instagram_handle"`
	SexualPreferences  string     `json:"sexual_preferences"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	City               string     `json:"city"`
	VerificationStatus string     `json:"verification_status"`
	IDVerified         bool       `json:"id_verified"`
	StatusExpiresAt    *time.Time `json:"status_expires_at"`
}

// ProfileResponse is the projected profile. The extended fields are flattened
// into the object and disappear entirely for incognito profiles.
type ProfileResponse struct {
	ID          string `json:"id"`
	MemberID    string `json:"member_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	StatusColor string `json:"status_color"`
	*ExtendedProfileResponse
}

// MapProfileViewToResponse converts a projected profile to an API response.
func MapProfileViewToResponse(view *profileDomain.ProfileView) *ProfileResponse {
	if view == nil {
		return nil
	}

	response := &ProfileResponse{
		ID:          view.ID.String(),
		MemberID:    view.MemberID,
		FullName:    view.FullName,
		Email:       view.Email,
		StatusColor: view.StatusColor,
	}

	if ext := view.Extended; ext != nil {
		response.ExtendedProfileResponse = &ExtendedProfileResponse{
			PrivacyMode:        string(ext.PrivacyMode),
			AvatarURL:          ext.AvatarURL,
			Bio:                ext.Bio,
			InstagramHandle:    ext.InstagramHandle,
			SexualPreferences:  ext.SexualPreferences,
			DateOfBirth:        ext.DateOfBirth,
			City:               ext.City,
			VerificationStatus: ext.VerificationStatus,
			IDVerified:         ext.IDVerified,
			StatusExpiresAt:    ext.StatusExpiresAt,
		}
	}

	return response
}

// BadgesResponse summarizes verification state next to a profile.
type BadgesResponse struct {
	StatusValid bool   `json:"status_valid"`
	IDVerified  bool   `json:"id_verified"`
	StatusColor string `json:"status_color"`
}

// VerifyTokenResponse carries the decision and, on ALLOW, the projected profile.
type VerifyTokenResponse struct {
	Result         string           `json:"result"`
	Purpose        string           `json:"purpose,omitempty"`
	Profile        *ProfileResponse `json:"profile,omitempty"`
	Badges         *BadgesResponse  `json:"badges,omitempty"`
	TokenExpiresAt *time.Time       `json:"token_expires_at,omitempty"`
}

// MapVerifyTokenOutputToResponse converts a verification outcome to an API response.
func MapVerifyTokenOutputToResponse(output *accessDomain.VerifyTokenOutput) VerifyTokenResponse {
	response := VerifyTokenResponse{
		Result:         string(output.Result),
		Purpose:        string(output.Purpose),
		Profile:        MapProfileViewToResponse(output.Profile),
		TokenExpiresAt: output.TokenExpiresAt,
	}
	if output.Badges != nil {
		response.Badges = &BadgesResponse{
			StatusValid: output.Badges.StatusValid,
			IDVerified:  output.Badges.IDVerified,
			StatusColor: output.Badges.StatusColor,
		}
	}
	return response
}

// ViewTokenResponse is the projected profile plus the token's expiry.
type ViewTokenResponse struct {
	Profile        *ProfileResponse `json:"profile"`
	TokenExpiresAt time.Time        `json:"tokenExpiresAt"`
}

// MapViewTokenOutputToResponse converts a token-gated view to an API response.
func MapViewTokenOutputToResponse(output *accessDomain.ViewTokenOutput) ViewTokenResponse {
	return ViewTokenResponse{
		Profile:        MapProfileViewToResponse(output.Profile),
		TokenExpiresAt: output.TokenExpiresAt,
	}
}

// RevokeTokenResponse confirms a revocation.
type RevokeTokenResponse struct {
	Revoked bool `json:"revoked"`
}

// AccessTokenResponse describes a token to its owner. The bearer value is never
// stored and therefore never listed.
type AccessTokenResponse struct {
	ID               string     `json:"id"`
	ProfileID        string     `json:"profile_id"`
	Purpose          string     `json:"purpose"`
	IssuedAt         time.Time  `json:"issued_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	UsedAt           *time.Time `json:"used_at"`
	RevokedAt        *time.Time `json:"revoked_at"`
	RevocationReason string     `json:"revocation_reason,omitempty"`
}

// ListAccessTokensResponse is a page of a profile's tokens.
type ListAccessTokensResponse struct {
	Data []AccessTokenResponse `json:"data"`
}

// MapAccessTokensToListResponse converts domain tokens to a list API response.
func MapAccessTokensToListResponse(tokens []*accessDomain.AccessToken) ListAccessTokensResponse {
	data := make([]AccessTokenResponse, 0, len(tokens))
	for _, token := range tokens {
		data = append(data, AccessTokenResponse{
			ID:               token.ID.String(),
			ProfileID:        token.ProfileID.String(),
			Purpose:          string(token.Purpose),
			IssuedAt:         token.IssuedAt,
			ExpiresAt:        token.ExpiresAt,
			UsedAt:           token.UsedAt,
			RevokedAt:        token.RevokedAt,
			RevocationReason: token.RevocationReason,
		})
	}
	return ListAccessTokensResponse{Data: data}
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	RequestID string         `json:"request_id"`
	ActorID   string         `json:"actor_id"`
	Action    string         `json:"action"`
	TokenID   string         `json:"token_id"`
	Reason    string         `json:"reason,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IsSigned  bool           `json:"is_signed"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListAuditLogsResponse is a page of audit logs.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts domain audit logs to a list API response.
func MapAuditLogsToListResponse(auditLogs []*accessDomain.AuditLog) ListAuditLogsResponse {
	data := make([]AuditLogResponse, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		data = append(data, AuditLogResponse{
			ID:        auditLog.ID.String(),
			RequestID: auditLog.RequestID.String(),
			ActorID:   auditLog.ActorID.String(),
			Action:    auditLog.Action,
			TokenID:   auditLog.TokenID.String(),
			Reason:    auditLog.Reason,
			Metadata:  auditLog.Metadata,
			IsSigned:  auditLog.IsSigned,
			CreatedAt: auditLog.CreatedAt,
		})
	}
	return ListAuditLogsResponse{Data: data}
}

// VerificationReportResponse is the JSON form of an audit log integrity check.
type VerificationReportResponse struct {
	TotalChecked  int64                      `json:"total_checked"`
	SignedCount   int64                      `json:"signed_count"`
	UnsignedCount int64                      `json:"unsigned_count"`
	ValidCount    int64                      `json:"valid_count"`
	InvalidCount  int64                      `json:"invalid_count"`
	InvalidLogs   []string                   `json:"invalid_logs"`
	Revocations   []ActorRevocationsResponse `json:"revocations"`
}

// ActorRevocationsResponse is the JSON form of one actor's revocation tally.
type ActorRevocationsResponse struct {
	ActorID  string `json:"actor_id"`
	Count    int64  `json:"count"`
	OnBehalf int64  `json:"on_behalf"`
}

// MapVerificationReportToResponse converts a verification report to its JSON form.
func MapVerificationReportToResponse(report *accessUseCase.VerificationReport) VerificationReportResponse {
	invalid := make([]string, 0, len(report.InvalidLogs))
	for _, id := range report.InvalidLogs {
		invalid = append(invalid, id.String())
	}
	revocations := make([]ActorRevocationsResponse, 0, len(report.Revocations))
	for _, actor := range report.Revocations {
		revocations = append(revocations, ActorRevocationsResponse{
			ActorID:  actor.ActorID.String(),
			Count:    actor.Count,
			OnBehalf: actor.OnBehalf,
		})
	}
	return VerificationReportResponse{
		TotalChecked:  report.TotalChecked,
		SignedCount:   report.SignedCount,
		UnsignedCount: report.UnsignedCount,
		ValidCount:    report.ValidCount,
		InvalidCount:  report.InvalidCount,
		InvalidLogs:   invalid,
		Revocations:   revocations,
	}
}
