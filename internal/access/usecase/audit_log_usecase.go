package usecase

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	accessService "github.com/allisson/ghostpass/internal/access/service"
	apperrors "github.com/allisson/ghostpass/internal/errors"
)

// verifyBatchSize is the page size used when walking audit logs for verification.
const verifyBatchSize = 1000

type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	signer       accessService.AuditSigner
	signingKey   []byte
	now          func() time.Time
}

// Create fills in the ID and timestamp and signs the record when a signing key
// is configured. Without a key the log is stored unsigned.
func (a *auditLogUseCase) Create(ctx context.Context, auditLog *accessDomain.AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.Must(uuid.NewV7())
	}
	if auditLog.CreatedAt.IsZero() {
		auditLog.CreatedAt = a.now()
	}
	// Stored timestamps keep microseconds; sign exactly what will be read back.
	auditLog.CreatedAt = auditLog.CreatedAt.UTC().Truncate(time.Microsecond)

	if len(a.signingKey) > 0 {
		signature, err := a.signer.Sign(a.signingKey, auditLog)
		if err != nil {
			return apperrors.Wrap(err, "failed to sign audit log")
		}
		auditLog.Signature = signature
		auditLog.IsSigned = true
	}

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}

func (a *auditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*accessDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	return auditLogs, nil
}

func (a *auditLogUseCase) VerifyBatch(
	ctx context.Context,
	start, end time.Time,
) (*VerificationReport, error) {
	report := &VerificationReport{InvalidLogs: make([]uuid.UUID, 0)}
	tally := make(map[uuid.UUID]*ActorRevocations)

	for offset := 0; ; offset += verifyBatchSize {
		logs, err := a.auditLogRepo.List(ctx, offset, verifyBatchSize, &start, &end)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list audit logs")
		}

		for _, log := range logs {
			report.TotalChecked++

			if !log.IsSigned {
				report.UnsignedCount++
				countRevocation(tally, log)
				continue
			}
			report.SignedCount++

			if len(a.signingKey) == 0 {
				return nil, accessDomain.ErrSigningKeyMissing
			}

			err := a.signer.Verify(a.signingKey, log)
			switch {
			case err == nil:
				report.ValidCount++
				countRevocation(tally, log)
			case errors.Is(err, accessDomain.ErrSignatureInvalid):
				report.InvalidCount++
				report.InvalidLogs = append(report.InvalidLogs, log.ID)
			default:
				return nil, apperrors.Wrap(err, "failed to verify audit log")
			}
		}

		if len(logs) < verifyBatchSize {
			break
		}
	}

	for _, actor := range tally {
		report.Revocations = append(report.Revocations, *actor)
	}
	slices.SortFunc(report.Revocations, func(x, y ActorRevocations) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.ActorID.String(), y.ActorID.String())
	})

	return report, nil
}

func countRevocation(tally map[uuid.UUID]*ActorRevocations, log *accessDomain.AuditLog) {
	if log.Action != accessDomain.ActionTokenRevoke {
		return
	}
	actor, ok := tally[log.ActorID]
	if !ok {
		actor = &ActorRevocations{ActorID: log.ActorID}
		tally[log.ActorID] = actor
	}
	actor.Count++
	if onBehalf, _ := log.Metadata["admin"].(bool); onBehalf {
		actor.OnBehalf++
	}
}

func (a *auditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be non-negative")
	}

	olderThan := a.now().UTC().AddDate(0, 0, -days)

	count, err := a.auditLogRepo.DeleteOlderThan(ctx, olderThan, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}
	return count, nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase. signingKey may be empty,
// in which case logs are stored unsigned.
func NewAuditLogUseCase(
	auditLogRepo AuditLogRepository,
	signer accessService.AuditSigner,
	signingKey []byte,
) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		signer:       signer,
		signingKey:   signingKey,
		now:          time.Now,
	}
}
