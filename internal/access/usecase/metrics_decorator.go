package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
	"github.com/allisson/ghostpass/internal/metrics"
)

const metricsDomain = "access"

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := statusOf(err)
	t.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	t.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Issue records metrics for token issuance.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	caller *identityDomain.Caller,
	input *accessDomain.IssueTokenInput,
) (*accessDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, caller, input)
	t.record(ctx, "token_issue", start, err)
	return output, err
}

// Verify records metrics for token verification, including the decision.
func (t *tokenUseCaseWithMetrics) Verify(
	ctx context.Context,
	input *accessDomain.VerifyTokenInput,
) (*accessDomain.VerifyTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Verify(ctx, input)
	t.record(ctx, "token_verify", start, err)

	if err == nil {
		purpose := string(output.Purpose)
		if purpose == "" {
			purpose = "unknown"
		}
		t.metrics.RecordDecision(ctx, purpose, string(output.Result))
	}

	return output, err
}

// View records metrics for token-gated profile views.
func (t *tokenUseCaseWithMetrics) View(
	ctx context.Context,
	input *accessDomain.ViewTokenInput,
) (*accessDomain.ViewTokenOutput, error) {
	start := time.Now()
	output, err := t.next.View(ctx, input)
	t.record(ctx, "token_view", start, err)
	return output, err
}

// Revoke records metrics for token revocation.
func (t *tokenUseCaseWithMetrics) Revoke(
	ctx context.Context,
	caller *identityDomain.Caller,
	input *accessDomain.RevokeTokenInput,
) error {
	start := time.Now()
	err := t.next.Revoke(ctx, caller, input)
	t.record(ctx, "token_revoke", start, err)
	return err
}

// List records metrics for token listing.
func (t *tokenUseCaseWithMetrics) List(
	ctx context.Context,
	caller *identityDomain.Caller,
	profileID uuid.UUID,
	offset, limit int,
) ([]*accessDomain.AccessToken, error) {
	start := time.Now()
	tokens, err := t.next.List(ctx, caller, profileID, offset, limit)
	t.record(ctx, "token_list", start, err)
	return tokens, err
}

// CleanupExpired records metrics for expired token cleanup.
func (t *tokenUseCaseWithMetrics) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanupExpired(ctx, days, dryRun)
	t.record(ctx, "token_cleanup", start, err)
	return count, err
}

// auditLogUseCaseWithMetrics decorates AuditLogUseCase with metrics instrumentation.
type auditLogUseCaseWithMetrics struct {
	next    AuditLogUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditLogUseCaseWithMetrics wraps an AuditLogUseCase with metrics recording.
func NewAuditLogUseCaseWithMetrics(useCase AuditLogUseCase, m metrics.BusinessMetrics) AuditLogUseCase {
	return &auditLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *auditLogUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := statusOf(err)
	a.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	a.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Create records metrics for audit log creation.
func (a *auditLogUseCaseWithMetrics) Create(ctx context.Context, auditLog *accessDomain.AuditLog) error {
	start := time.Now()
	err := a.next.Create(ctx, auditLog)
	a.record(ctx, "audit_log_create", start, err)
	return err
}

// List records metrics for audit log listing.
func (a *auditLogUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*accessDomain.AuditLog, error) {
	start := time.Now()
	logs, err := a.next.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	a.record(ctx, "audit_log_list", start, err)
	return logs, err
}

// VerifyBatch records metrics for audit log verification.
func (a *auditLogUseCaseWithMetrics) VerifyBatch(
	ctx context.Context,
	start, end time.Time,
) (*VerificationReport, error) {
	begin := time.Now()
	report, err := a.next.VerifyBatch(ctx, start, end)
	a.record(ctx, "audit_log_verify", begin, err)
	return report, err
}

// DeleteOlderThan records metrics for audit log cleanup.
func (a *auditLogUseCaseWithMetrics) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := a.next.DeleteOlderThan(ctx, days, dryRun)
	a.record(ctx, "audit_log_delete", start, err)
	return count, err
}
