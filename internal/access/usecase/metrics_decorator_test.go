package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	"github.com/allisson/ghostpass/internal/access/usecase"
	usecaseMocks "github.com/allisson/ghostpass/internal/access/usecase/mocks"
	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordDecision(ctx context.Context, purpose, decision string) {
	m.Called(ctx, purpose, decision)
}

func expectOperation(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "access", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "access", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestTokenUseCaseWithMetrics(t *testing.T) {
	mockNext := &usecaseMocks.MockTokenUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	uc := usecase.NewTokenUseCaseWithMetrics(mockNext, mockMetrics)

	ctx := context.Background()
	caller := &identityDomain.Caller{ID: uuid.New()}

	t.Run("Issue success", func(t *testing.T) {
		input := &accessDomain.IssueTokenInput{ProfileID: uuid.New()}
		output := &accessDomain.IssueTokenOutput{PlainToken: "token"}

		mockNext.On("Issue", ctx, caller, input).Return(output, nil).Once()
		expectOperation(mockMetrics, ctx, "token_issue", "success")

		res, err := uc.Issue(ctx, caller, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Issue error", func(t *testing.T) {
		input := &accessDomain.IssueTokenInput{ProfileID: uuid.New()}

		mockNext.On("Issue", ctx, caller, input).Return(nil, accessDomain.ErrProfileAccessDenied).Once()
		expectOperation(mockMetrics, ctx, "token_issue", "error")

		res, err := uc.Issue(ctx, caller, input)
		assert.ErrorIs(t, err, accessDomain.ErrProfileAccessDenied)
		assert.Nil(t, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Verify records decision", func(t *testing.T) {
		input := &accessDomain.VerifyTokenInput{Token: "token"}
		output := &accessDomain.VerifyTokenOutput{
			Result:  accessDomain.DecisionExpired,
			Purpose: accessDomain.PurposeVenueAdmission,
		}

		mockNext.On("Verify", ctx, input).Return(output, nil).Once()
		expectOperation(mockMetrics, ctx, "token_verify", "success")
		mockMetrics.On("RecordDecision", ctx, "venue_admission", "EXPIRED").Return().Once()

		res, err := uc.Verify(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Verify unknown token", func(t *testing.T) {
		input := &accessDomain.VerifyTokenInput{Token: "unknown"}
		output := &accessDomain.VerifyTokenOutput{Result: accessDomain.DecisionInvalid}

		mockNext.On("Verify", ctx, input).Return(output, nil).Once()
		expectOperation(mockMetrics, ctx, "token_verify", "success")
		mockMetrics.On("RecordDecision", ctx, "unknown", "INVALID").Return().Once()

		_, err := uc.Verify(ctx, input)
		assert.NoError(t, err)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Verify error skips decision", func(t *testing.T) {
		input := &accessDomain.VerifyTokenInput{Token: "token"}

		mockNext.On("Verify", ctx, input).Return(nil, errors.New("db down")).Once()
		expectOperation(mockMetrics, ctx, "token_verify", "error")

		res, err := uc.Verify(ctx, input)
		assert.Error(t, err)
		assert.Nil(t, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("View success", func(t *testing.T) {
		input := &accessDomain.ViewTokenInput{Token: "token"}
		output := &accessDomain.ViewTokenOutput{}

		mockNext.On("View", ctx, input).Return(output, nil).Once()
		expectOperation(mockMetrics, ctx, "token_view", "success")

		res, err := uc.View(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Revoke success", func(t *testing.T) {
		input := &accessDomain.RevokeTokenInput{TokenID: uuid.New()}

		mockNext.On("Revoke", ctx, caller, input).Return(nil).Once()
		expectOperation(mockMetrics, ctx, "token_revoke", "success")

		err := uc.Revoke(ctx, caller, input)
		assert.NoError(t, err)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("List success", func(t *testing.T) {
		profileID := uuid.New()
		tokens := []*accessDomain.AccessToken{{ID: uuid.New()}}

		mockNext.On("List", ctx, caller, profileID, 0, 50).Return(tokens, nil).Once()
		expectOperation(mockMetrics, ctx, "token_list", "success")

		res, err := uc.List(ctx, caller, profileID, 0, 50)
		assert.NoError(t, err)
		assert.Equal(t, tokens, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("CleanupExpired success", func(t *testing.T) {
		mockNext.On("CleanupExpired", ctx, 7, true).Return(int64(5), nil).Once()
		expectOperation(mockMetrics, ctx, "token_cleanup", "success")

		count, err := uc.CleanupExpired(ctx, 7, true)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), count)
		mockMetrics.AssertExpectations(t)
	})
}

func TestAuditLogUseCaseWithMetrics(t *testing.T) {
	mockNext := &usecaseMocks.MockAuditLogUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	uc := usecase.NewAuditLogUseCaseWithMetrics(mockNext, mockMetrics)

	ctx := context.Background()

	t.Run("Create success", func(t *testing.T) {
		auditLog := &accessDomain.AuditLog{Action: accessDomain.ActionTokenRevoke}

		mockNext.On("Create", ctx, auditLog).Return(nil).Once()
		expectOperation(mockMetrics, ctx, "audit_log_create", "success")

		err := uc.Create(ctx, auditLog)
		assert.NoError(t, err)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("List error", func(t *testing.T) {
		mockNext.On("List", ctx, 0, 10, (*time.Time)(nil), (*time.Time)(nil)).
			Return(nil, errors.New("error")).
			Once()
		expectOperation(mockMetrics, ctx, "audit_log_list", "error")

		res, err := uc.List(ctx, 0, 10, nil, nil)
		assert.Error(t, err)
		assert.Nil(t, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("VerifyBatch success", func(t *testing.T) {
		start := time.Now().Add(-time.Hour)
		end := time.Now()
		report := &usecase.VerificationReport{TotalChecked: 1, ValidCount: 1}

		mockNext.On("VerifyBatch", ctx, start, end).Return(report, nil).Once()
		expectOperation(mockMetrics, ctx, "audit_log_verify", "success")

		res, err := uc.VerifyBatch(ctx, start, end)
		assert.NoError(t, err)
		assert.Equal(t, report, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("DeleteOlderThan success", func(t *testing.T) {
		mockNext.On("DeleteOlderThan", ctx, 90, false).Return(int64(3), nil).Once()
		expectOperation(mockMetrics, ctx, "audit_log_delete", "success")

		count, err := uc.DeleteOlderThan(ctx, 90, false)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		mockMetrics.AssertExpectations(t)
	})
}
