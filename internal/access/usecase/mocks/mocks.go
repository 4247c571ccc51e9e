// Package mocks provides testify mocks of the access use cases.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	accessUseCase "github.com/allisson/ghostpass/internal/access/usecase"
	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method of TokenUseCase.
func (m *MockTokenUseCase) Issue(
	ctx context.Context,
	caller *identityDomain.Caller,
	input *accessDomain.IssueTokenInput,
) (*accessDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.IssueTokenOutput), args.Error(1)
}

// Verify mocks the Verify method of TokenUseCase.
func (m *MockTokenUseCase) Verify(
	ctx context.Context,
	input *accessDomain.VerifyTokenInput,
) (*accessDomain.VerifyTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.VerifyTokenOutput), args.Error(1)
}

// View mocks the View method of TokenUseCase.
func (m *MockTokenUseCase) View(
	ctx context.Context,
	input *accessDomain.ViewTokenInput,
) (*accessDomain.ViewTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.ViewTokenOutput), args.Error(1)
}

// Revoke mocks the Revoke method of TokenUseCase.
func (m *MockTokenUseCase) Revoke(
	ctx context.Context,
	caller *identityDomain.Caller,
	input *accessDomain.RevokeTokenInput,
) error {
	args := m.Called(ctx, caller, input)
	return args.Error(0)
}

// List mocks the List method of TokenUseCase.
func (m *MockTokenUseCase) List(
	ctx context.Context,
	caller *identityDomain.Caller,
	profileID uuid.UUID,
	offset, limit int,
) ([]*accessDomain.AccessToken, error) {
	args := m.Called(ctx, caller, profileID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.AccessToken), args.Error(1)
}

// CleanupExpired mocks the CleanupExpired method of TokenUseCase.
func (m *MockTokenUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditLogUseCase is a mock implementation of AuditLogUseCase for testing.
type MockAuditLogUseCase struct {
	mock.Mock
}

// Create mocks the Create method of AuditLogUseCase.
func (m *MockAuditLogUseCase) Create(ctx context.Context, auditLog *accessDomain.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

// List mocks the List method of AuditLogUseCase.
func (m *MockAuditLogUseCase) List(
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

// VerifyBatch mocks the VerifyBatch method of AuditLogUseCase.
func (m *MockAuditLogUseCase) VerifyBatch(
	ctx context.Context,
	start, end time.Time,
) (*accessUseCase.VerificationReport, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessUseCase.VerificationReport), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method of AuditLogUseCase.
func (m *MockAuditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
