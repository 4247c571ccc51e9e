package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/allisson/ghostpass/internal/access/http/dto"
	accessUseCase "github.com/allisson/ghostpass/internal/access/usecase"
)

// dateLayouts are tried in order when parsing --start-date and --end-date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RunVerifyAuditLogs checks the signatures of the revocation audit trail in
// [startDate, endDate) and summarizes who revoked what. A tampered log makes
// the command fail.
func RunVerifyAuditLogs(
	ctx context.Context,
	auditLogUseCase accessUseCase.AuditLogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	startDate, endDate string,
	format string,
) error {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return err
	}

	logger.Info("verifying revocation audit trail",
		slog.Time("start_date", start),
		slog.Time("end_date", end),
	)

	report, err := auditLogUseCase.VerifyBatch(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to verify audit logs: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, struct {
			dto.VerificationReportResponse
			Passed bool `json:"passed"`
		}{
			VerificationReportResponse: dto.MapVerificationReportToResponse(report),
			Passed:                     report.InvalidCount == 0,
		}); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		writeTrailSummary(writer, report, start, end)
	}

	logger.Info("verification completed",
		slog.Int64("total_checked", report.TotalChecked),
		slog.Int64("valid", report.ValidCount),
		slog.Int64("invalid", report.InvalidCount),
		slog.Int64("unsigned", report.UnsignedCount),
		slog.Int("actors", len(report.Revocations)),
	)

	if report.InvalidCount > 0 {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", report.InvalidCount)
	}
	return nil
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must be after start date")
	}
	return start, end, nil
}

// parseDate accepts RFC 3339, "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD" (UTC midnight).
func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD, YYYY-MM-DD HH:MM:SS or RFC 3339)", value)
}

func writeTrailSummary(writer io.Writer, report *accessUseCase.VerificationReport, start, end time.Time) {
	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(tw, "Revocation audit trail %s .. %s\n\n",
		start.Format(time.DateTime), end.Format(time.DateTime))
	_, _ = fmt.Fprintf(tw, "Logs\t%d\t(%d signed, %d unsigned)\n",
		report.TotalChecked, report.SignedCount, report.UnsignedCount)
	_, _ = fmt.Fprintf(tw, "Signatures\t%d valid\t%d tampered\n", report.ValidCount, report.InvalidCount)

	if len(report.Revocations) > 0 {
		_, _ = fmt.Fprintf(tw, "\nRevocations by actor\n")
		for _, actor := range report.Revocations {
			_, _ = fmt.Fprintf(tw, "  %s\t%d\t(%d on behalf of another owner)\n",
				actor.ActorID, actor.Count, actor.OnBehalf)
		}
	}

	if len(report.InvalidLogs) > 0 {
		_, _ = fmt.Fprintf(tw, "\nTampered logs\n")
		for _, id := range report.InvalidLogs {
			_, _ = fmt.Fprintf(tw, "  %s\n", id)
		}
	}

	switch {
	case report.InvalidCount > 0:
		_, _ = fmt.Fprintf(tw, "\nResult: FAILED, %d log(s) do not match their signature\n", report.InvalidCount)
	case report.TotalChecked == 0:
		_, _ = fmt.Fprintf(tw, "\nResult: no logs in range\n")
	default:
		_, _ = fmt.Fprintf(tw, "\nResult: PASSED\n")
	}

	_ = tw.Flush()
}
