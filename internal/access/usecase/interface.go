// Package usecase orchestrates the access-token lifecycle: issue, verify, view,
// revoke, list and cleanup, plus the signed audit trail of revocations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
	profileDomain "github.com/allisson/ghostpass/internal/profile/domain"
)

// TokenRepository defines persistence operations for access tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token.
	Create(ctx context.Context, token *accessDomain.AccessToken) error

	// Get retrieves a token by ID. Returns ErrTokenNotFound if not found.
	Get(ctx context.Context, tokenID uuid.UUID) (*accessDomain.AccessToken, error)

	// GetByTokenHash retrieves a token by the hash of its bearer value.
	GetByTokenHash(ctx context.Context, tokenHash string) (*accessDomain.AccessToken, error)

	// ListByProfile lists a profile's tokens, newest first.
	ListByProfile(
		ctx context.Context,
		profileID uuid.UUID,
		offset, limit int,
	) ([]*accessDomain.AccessToken, error)

	// MarkUsed consumes a strict single-use token in one conditional update.
	// It reports false when the token was already used, revoked or expired at now.
	MarkUsed(ctx context.Context, tokenID uuid.UUID, now time.Time) (bool, error)

	// TouchUsed records the first use of a reusable token. Later calls keep the
	// original used_at. It reports false when the token is revoked or expired at now.
	TouchUsed(ctx context.Context, tokenID uuid.UUID, now time.Time) (bool, error)

	// Revoke sets revoked_at and the reason only if the token is not revoked yet.
	// It reports whether this call performed the revocation.
	Revoke(ctx context.Context, tokenID uuid.UUID, reason string, now time.Time) (bool, error)

	// DeleteExpired removes tokens that expired before olderThan.
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)

	// CountExpired counts tokens that expired before olderThan.
	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// ProfileRepository reads the resources tokens grant a view of.
type ProfileRepository interface {
	Get(ctx context.Context, profileID uuid.UUID) (*profileDomain.Profile, error)
}

// ViewEventRepository appends profile view events.
type ViewEventRepository interface {
	Create(ctx context.Context, event *accessDomain.ViewEvent) error
}

// AuditLogRepository defines persistence operations for audit logs.
type AuditLogRepository interface {
	// Create appends an audit log.
	Create(ctx context.Context, auditLog *accessDomain.AuditLog) error

	// List returns audit logs newest first, optionally bounded by created_at (inclusive).
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*accessDomain.AuditLog, error)

	// DeleteOlderThan deletes (or with dryRun counts) logs created before olderThan.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// TokenUseCase implements the token lifecycle.
type TokenUseCase interface {
	// Issue mints a token for a profile the caller owns. Missing and foreign
	// profiles both yield ErrProfileAccessDenied.
	Issue(
		ctx context.Context,
		caller *identityDomain.Caller,
		input *accessDomain.IssueTokenInput,
	) (*accessDomain.IssueTokenOutput, error)

	// Verify decides ALLOW, EXPIRED or INVALID and consumes the token on ALLOW.
	// Decisions are not errors; errors are upstream failures only.
	Verify(ctx context.Context, input *accessDomain.VerifyTokenInput) (*accessDomain.VerifyTokenOutput, error)

	// View verifies like Verify but reports anything except ALLOW as ErrTokenNotFound,
	// and records a best-effort view event.
	View(ctx context.Context, input *accessDomain.ViewTokenInput) (*accessDomain.ViewTokenOutput, error)

	// Revoke invalidates a token by id. Only the issuing owner or an admin may revoke.
	// Revoking an already revoked token succeeds without changes.
	Revoke(ctx context.Context, caller *identityDomain.Caller, input *accessDomain.RevokeTokenInput) error

	// List returns a profile's tokens to its owner or an admin.
	List(
		ctx context.Context,
		caller *identityDomain.Caller,
		profileID uuid.UUID,
		offset, limit int,
	) ([]*accessDomain.AccessToken, error)

	// CleanupExpired deletes (or with dryRun counts) tokens expired more than days ago.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}

// VerificationReport summarizes an audit log integrity check.
type VerificationReport struct {
	TotalChecked  int64
	SignedCount   int64
	UnsignedCount int64
	ValidCount    int64
	InvalidCount  int64
	InvalidLogs   []uuid.UUID
	// Revocations tallies token revocations per actor, busiest first.
	// Logs that failed verification are not counted.
	Revocations []ActorRevocations
}

// ActorRevocations counts the revocations one actor performed. OnBehalf is the
// subset that targeted tokens owned by someone else (admin revocations).
type ActorRevocations struct {
	ActorID  uuid.UUID
	Count    int64
	OnBehalf int64
}

// AuditLogUseCase records and checks the signed audit trail.
type AuditLogUseCase interface {
	// Create signs (when a key is configured) and appends an audit log.
	Create(ctx context.Context, auditLog *accessDomain.AuditLog) error

	// List returns audit logs newest first with optional created_at bounds.
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*accessDomain.AuditLog, error)

	// VerifyBatch checks every signature of logs created in [start, end].
	VerifyBatch(ctx context.Context, start, end time.Time) (*VerificationReport, error)

	// DeleteOlderThan deletes (or with dryRun counts) logs older than days.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
