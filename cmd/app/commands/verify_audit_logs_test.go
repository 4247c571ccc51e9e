package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessUseCase "github.com/allisson/ghostpass/internal/access/usecase"
	usecaseMocks "github.com/allisson/ghostpass/internal/access/usecase/mocks"
)

func TestRunVerifyAuditLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	startDate := "2025-01-01"
	endDate := "2025-01-02"

	report := &accessUseCase.VerificationReport{
		TotalChecked: 10,
		SignedCount:  10,
		ValidCount:   10,
	}

	t.Run("success-text", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockAuditLogUseCase{}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(report, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Revocation audit trail 2025-01-01 00:00:00 .. 2025-01-02 00:00:00")
		require.Contains(t, out.String(), "Result: PASSED")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("success-json", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockAuditLogUseCase{}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(report, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "json")
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(out.Bytes(), &result)
		require.NoError(t, err)
		require.Equal(t, float64(10), result["total_checked"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-dates", func(t *testing.T) {
		err := RunVerifyAuditLogs(ctx, nil, logger, nil, "invalid", endDate, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid start date")
	})

	t.Run("integrity-failure", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockAuditLogUseCase{}
		failureReport := &accessUseCase.VerificationReport{
			TotalChecked: 10,
			InvalidCount: 2,
			InvalidLogs:  []uuid.UUID{uuid.New(), uuid.New()},
		}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(failureReport, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "integrity check failed")
		require.Contains(t, out.String(), "Tampered logs")
		require.Contains(t, out.String(), failureReport.InvalidLogs[0].String())
		require.Contains(t, out.String(), "Result: FAILED, 2 log(s) do not match their signature")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("integrity-failure-json", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockAuditLogUseCase{}
		badID := uuid.New()
		failureReport := &accessUseCase.VerificationReport{
			TotalChecked: 1,
			SignedCount:  1,
			InvalidCount: 1,
			InvalidLogs:  []uuid.UUID{badID},
		}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(failureReport, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "json")
		require.Error(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, false, result["passed"])
		require.Equal(t, []interface{}{badID.String()}, result["invalid_logs"])
	})

	t.Run("no-logs", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockAuditLogUseCase{}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(&accessUseCase.VerificationReport{}, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Result: no logs in range")
		require.NotContains(t, out.String(), "Revocations by actor")
	})

	t.Run("revocations-per-actor", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockAuditLogUseCase{}
		admin := uuid.New()
		owner := uuid.New()
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(&accessUseCase.VerificationReport{
				TotalChecked: 4,
				SignedCount:  4,
				ValidCount:   4,
				Revocations: []accessUseCase.ActorRevocations{
					{ActorID: admin, Count: 3, OnBehalf: 2},
					{ActorID: owner, Count: 1},
				},
			}, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text")
		require.NoError(t, err)

		text := out.String()
		require.Contains(t, text, "Revocations by actor")
		require.Regexp(t, admin.String()+`\s+3\s+\(2 on behalf of another owner\)`, text)
		require.Regexp(t, owner.String()+`\s+1\s+\(0 on behalf of another owner\)`, text)
		require.Less(t, strings.Index(text, admin.String()), strings.Index(text, owner.String()))
		mockUseCase.AssertExpectations(t)
	})

	t.Run("revocations-json", func(t *testing.T) {
		mockUseCase := &usecaseMocks.MockAuditLogUseCase{}
		admin := uuid.New()
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(&accessUseCase.VerificationReport{
				TotalChecked: 1,
				SignedCount:  1,
				ValidCount:   1,
				Revocations:  []accessUseCase.ActorRevocations{{ActorID: admin, Count: 1, OnBehalf: 1}},
			}, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "json")
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, true, result["passed"])
		require.Equal(t, []interface{}{
			map[string]interface{}{"actor_id": admin.String(), "count": float64(1), "on_behalf": float64(1)},
		}, result["revocations"])
	})

	t.Run("end-before-start", func(t *testing.T) {
		err := RunVerifyAuditLogs(ctx, nil, logger, nil, endDate, startDate, "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "end date must be after start date")
	})
}

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2025-01-02 03:04:05")
	require.NoError(t, err)
	require.Equal(t, 3, parsed.Hour())

	parsed, err = parseDate("2025-01-02")
	require.NoError(t, err)
	require.Equal(t, 0, parsed.Hour())

	parsed, err = parseDate("2025-01-02T03:04:05+02:00")
	require.NoError(t, err)
	require.Equal(t, 1, parsed.Hour())
	require.Equal(t, time.UTC, parsed.Location())

	_, err = parseDate("02/01/2025")
	require.Error(t, err)
}
