package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	profileDomain "github.com/allisson/ghostpass/internal/profile/domain"
)

type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) Create(ctx context.Context, token *accessDomain.AccessToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) Get(ctx context.Context, tokenID uuid.UUID) (*accessDomain.AccessToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.AccessToken), args.Error(1)
}

func (m *mockTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*accessDomain.AccessToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.AccessToken), args.Error(1)
}

func (m *mockTokenRepository) ListByProfile(
	ctx context.Context,
	profileID uuid.UUID,
	offset, limit int,
) ([]*accessDomain.AccessToken, error) {
	args := m.Called(ctx, profileID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.AccessToken), args.Error(1)
}

func (m *mockTokenRepository) MarkUsed(ctx context.Context, tokenID uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, tokenID, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepository) TouchUsed(ctx context.Context, tokenID uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, tokenID, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepository) Revoke(
	ctx context.Context,
	tokenID uuid.UUID,
	reason string,
	now time.Time,
) (bool, error) {
	args := m.Called(ctx, tokenID, reason, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) Get(ctx context.Context, profileID uuid.UUID) (*profileDomain.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profileDomain.Profile), args.Error(1)
}

type mockViewEventRepository struct {
	mock.Mock
}

func (m *mockViewEventRepository) Create(ctx context.Context, event *accessDomain.ViewEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(ctx context.Context, auditLog *accessDomain.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *mockAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*accessDomain.AuditLog, error) {
	args := m.Called(ctx, offset, limit, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.AuditLog), args.Error(1)
}

func (m *mockAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditLogUseCase struct {
	mock.Mock
}

func (m *mockAuditLogUseCase) Create(ctx context.Context, auditLog *accessDomain.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *mockAuditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*accessDomain.AuditLog, error) {
	args := m.Called(ctx, offset, limit, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.AuditLog), args.Error(1)
}

func (m *mockAuditLogUseCase) VerifyBatch(ctx context.Context, start, end time.Time) (*VerificationReport, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationReport), args.Error(1)
}

func (m *mockAuditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}

type mockQRService struct {
	mock.Mock
}

func (m *mockQRService) Encode(payload string) ([]byte, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockAuditSigner struct {
	mock.Mock
}

func (m *mockAuditSigner) Sign(key []byte, log *accessDomain.AuditLog) ([]byte, error) {
	args := m.Called(key, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockAuditSigner) Verify(key []byte, log *accessDomain.AuditLog) error {
	args := m.Called(key, log)
	return args.Error(0)
}

// passthroughTxManager runs fn directly without a database.
type passthroughTxManager struct {
	calls int
}

func (p *passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
