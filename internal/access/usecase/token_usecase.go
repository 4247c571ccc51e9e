package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	accessService "github.com/allisson/ghostpass/internal/access/service"
	"github.com/allisson/ghostpass/internal/database"
	apperrors "github.com/allisson/ghostpass/internal/errors"
	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
	profileDomain "github.com/allisson/ghostpass/internal/profile/domain"
)

// viewEventTimeout bounds the best-effort view event write.
const viewEventTimeout = 2 * time.Second

type tokenUseCase struct {
	policies        accessDomain.Policies
	txManager       database.TxManager
	tokenRepo       TokenRepository
	profileRepo     ProfileRepository
	viewEventRepo   ViewEventRepository
	auditLogUseCase AuditLogUseCase
	tokenService    accessService.TokenService
	qrService       accessService.QRService
	logger          *slog.Logger
	now             func() time.Time
}

func (t *tokenUseCase) Issue(
	ctx context.Context,
	caller *identityDomain.Caller,
	input *accessDomain.IssueTokenInput,
) (*accessDomain.IssueTokenOutput, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthorized
	}

	// Missing and foreign profiles are indistinguishable to the issuer.
	profile, err := t.profileRepo.Get(ctx, input.ProfileID)
	if err != nil {
		if errors.Is(err, profileDomain.ErrProfileNotFound) {
			return nil, accessDomain.ErrProfileAccessDenied
		}
		return nil, err
	}
	if profile.OwnerID != caller.ID {
		return nil, accessDomain.ErrProfileAccessDenied
	}

	purpose := input.Purpose
	if purpose == "" {
		purpose = accessDomain.PurposeProfileView
	}

	policy, err := t.policies.For(purpose)
	if err != nil {
		return nil, err
	}

	ttl, err := policy.ResolveTTL(input.TTL)
	if err != nil {
		return nil, err
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := t.now().UTC()
	token := &accessDomain.AccessToken{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		ProfileID: profile.ID,
		OwnerID:   caller.ID,
		Purpose:   purpose,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	output := &accessDomain.IssueTokenOutput{
		ID:         token.ID,
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
		ProfileID:  token.ProfileID,
		Purpose:    token.Purpose,
	}

	if input.IncludeQR {
		qrCode, err := t.qrService.Encode(plainToken)
		if err != nil {
			return nil, err
		}
		output.QRCode = qrCode
	}

	return output, nil
}

// present looks up a bearer value and, when the token is live, consumes it
// according to its purpose policy. The returned token is nil when nothing matched.
func (t *tokenUseCase) present(
	ctx context.Context,
	plainToken string,
	profileID *uuid.UUID,
	now time.Time,
) (*accessDomain.AccessToken, accessDomain.Decision, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, t.tokenService.HashToken(plainToken))
	if err != nil {
		if errors.Is(err, accessDomain.ErrTokenNotFound) {
			return nil, accessDomain.DecisionInvalid, nil
		}
		return nil, "", err
	}

	// A wrong profile is reported exactly like an unknown token.
	if profileID != nil && *profileID != token.ProfileID {
		return nil, accessDomain.DecisionInvalid, nil
	}

	decision := accessDomain.Evaluate(token, now)
	if decision != accessDomain.DecisionAllow {
		return token, decision, nil
	}

	// Unknown stored purposes fall back to strict single-use.
	reusable := t.policies[token.Purpose].Reusable

	var consumed bool
	if reusable {
		consumed, err = t.tokenRepo.TouchUsed(ctx, token.ID, now)
	} else {
		consumed, err = t.tokenRepo.MarkUsed(ctx, token.ID, now)
	}
	if err != nil {
		return nil, "", err
	}

	if consumed {
		if token.UsedAt == nil {
			token.UsedAt = &now
		}
		return token, accessDomain.DecisionAllow, nil
	}

	// The conditional update matched nothing: the row changed since we read it,
	// or (reusable) it was already marked. Re-read to decide.
	reloaded, err := t.tokenRepo.Get(ctx, token.ID)
	if err != nil {
		if errors.Is(err, accessDomain.ErrTokenNotFound) {
			return nil, accessDomain.DecisionInvalid, nil
		}
		return nil, "", err
	}

	decision = accessDomain.Evaluate(reloaded, now)
	if decision == accessDomain.DecisionAllow && !reusable {
		// Another presentation consumed this strict token first.
		decision = accessDomain.DecisionInvalid
	}
	return reloaded, decision, nil
}

func (t *tokenUseCase) Verify(
	ctx context.Context,
	input *accessDomain.VerifyTokenInput,
) (*accessDomain.VerifyTokenOutput, error) {
	now := t.now().UTC()

	token, decision, err := t.present(ctx, input.Token, input.ProfileID, now)
	if err != nil {
		return nil, err
	}

	// INVALID carries nothing else, so a revoked or consumed token reads
	// exactly like one that never existed.
	if decision != accessDomain.DecisionAllow {
		return &accessDomain.VerifyTokenOutput{Result: decision}, nil
	}

	profile, err := t.profileRepo.Get(ctx, token.ProfileID)
	if err != nil {
		if errors.Is(err, profileDomain.ErrProfileNotFound) {
			return &accessDomain.VerifyTokenOutput{Result: accessDomain.DecisionInvalid}, nil
		}
		return nil, err
	}

	output := &accessDomain.VerifyTokenOutput{Result: decision, Purpose: token.Purpose}

	badges := profileDomain.BadgesFor(profile, now)
	expiresAt := token.ExpiresAt

	output.Profile = profileDomain.Project(profile)
	output.Badges = &badges
	output.TokenExpiresAt = &expiresAt
	return output, nil
}

func (t *tokenUseCase) View(
	ctx context.Context,
	input *accessDomain.ViewTokenInput,
) (*accessDomain.ViewTokenOutput, error) {
	now := t.now().UTC()

	token, decision, err := t.present(ctx, input.Token, nil, now)
	if err != nil {
		return nil, err
	}
	if decision != accessDomain.DecisionAllow {
		return nil, accessDomain.ErrTokenNotFound
	}

	profile, err := t.profileRepo.Get(ctx, token.ProfileID)
	if err != nil {
		if errors.Is(err, profileDomain.ErrProfileNotFound) {
			return nil, accessDomain.ErrTokenNotFound
		}
		return nil, err
	}

	t.recordView(ctx, &accessDomain.ViewEvent{
		ID:        uuid.Must(uuid.NewV7()),
		ProfileID: profile.ID,
		TokenID:   token.ID,
		ViewerIP:  input.ViewerIP,
		CreatedAt: now,
	})

	return &accessDomain.ViewTokenOutput{
		Profile:        profileDomain.Project(profile),
		TokenExpiresAt: token.ExpiresAt,
	}, nil
}

// recordView appends a view event. Failures are logged and never surfaced.
func (t *tokenUseCase) recordView(ctx context.Context, event *accessDomain.ViewEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewEventTimeout)
	defer cancel()

	if err := t.viewEventRepo.Create(ctx, event); err != nil {
		t.logger.Warn("failed to record profile view",
			slog.String("profile_id", event.ProfileID.String()),
			slog.String("token_id", event.TokenID.String()),
			slog.Any("error", err),
		)
	}
}

func (t *tokenUseCase) Revoke(
	ctx context.Context,
	caller *identityDomain.Caller,
	input *accessDomain.RevokeTokenInput,
) error {
	if caller == nil {
		return apperrors.ErrUnauthorized
	}

	token, err := t.tokenRepo.Get(ctx, input.TokenID)
	if err != nil {
		// Only admins learn whether an id exists.
		if errors.Is(err, accessDomain.ErrTokenNotFound) && !caller.IsAdmin() {
			return accessDomain.ErrRevokeDenied
		}
		return err
	}

	if !caller.CanManage(token.OwnerID) {
		return accessDomain.ErrRevokeDenied
	}

	if token.IsRevoked() {
		return nil
	}

	now := t.now().UTC()

	return t.txManager.WithTx(ctx, func(ctx context.Context) error {
		revoked, err := t.tokenRepo.Revoke(ctx, token.ID, input.Reason, now)
		if err != nil {
			return err
		}
		if !revoked {
			// Lost the race to a concurrent revocation, which wrote its own audit log.
			return nil
		}

		return t.auditLogUseCase.Create(ctx, &accessDomain.AuditLog{
			RequestID: input.RequestID,
			ActorID:   caller.ID,
			Action:    accessDomain.ActionTokenRevoke,
			TokenID:   token.ID,
			Reason:    input.Reason,
			Metadata: map[string]any{
				"profile_id": token.ProfileID.String(),
				"purpose":    string(token.Purpose),
				"admin":      caller.ID != token.OwnerID,
			},
			CreatedAt: now,
		})
	})
}

func (t *tokenUseCase) List(
	ctx context.Context,
	caller *identityDomain.Caller,
	profileID uuid.UUID,
	offset, limit int,
) ([]*accessDomain.AccessToken, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthorized
	}

	profile, err := t.profileRepo.Get(ctx, profileID)
	if err != nil {
		if errors.Is(err, profileDomain.ErrProfileNotFound) {
			return nil, accessDomain.ErrProfileAccessDenied
		}
		return nil, err
	}
	if !caller.CanManage(profile.OwnerID) {
		return nil, accessDomain.ErrProfileAccessDenied
	}

	return t.tokenRepo.ListByProfile(ctx, profileID, offset, limit)
}

func (t *tokenUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be non-negative")
	}

	olderThan := t.now().UTC().AddDate(0, 0, -days)

	if dryRun {
		count, err := t.tokenRepo.CountExpired(ctx, olderThan)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count expired tokens")
		}
		return count, nil
	}

	count, err := t.tokenRepo.DeleteExpired(ctx, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	return count, nil
}

// NewTokenUseCase creates a new TokenUseCase.
func NewTokenUseCase(
	policies accessDomain.Policies,
	txManager database.TxManager,
	tokenRepo TokenRepository,
	profileRepo ProfileRepository,
	viewEventRepo ViewEventRepository,
	auditLogUseCase AuditLogUseCase,
	tokenService accessService.TokenService,
	qrService accessService.QRService,
	logger *slog.Logger,
) TokenUseCase {
	return &tokenUseCase{
		policies:        policies,
		txManager:       txManager,
		tokenRepo:       tokenRepo,
		profileRepo:     profileRepo,
		viewEventRepo:   viewEventRepo,
		auditLogUseCase: auditLogUseCase,
		tokenService:    tokenService,
		qrService:       qrService,
		logger:          logger,
		now:             time.Now,
	}
}
