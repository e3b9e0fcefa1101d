package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	auditUsecase "github.com/allisson/proxyadmin/internal/audit/usecase"
)

// RunCleanAuditLogs deletes audit log entries older than the specified number
// of days. Supports dry-run mode to preview the deletion count and both text
// and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanAuditLogs(
	ctx context.Context,
	auditLogUseCase auditUsecase.AuditLogUseCase,
	logger *slog.Logger,
	out io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning audit logs",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := auditLogUseCase.Clean(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean audit logs: %w", err)
	}

	if format == "json" {
		outputCleanJSON(out, count, days, dryRun)
	} else {
		outputCleanText(out, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanText outputs the result in human-readable text format.
func outputCleanText(out io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(out, "Dry-run mode: Would delete %d audit log(s) older than %d day(s)\n", count, days)
	} else {
		_, _ = fmt.Fprintf(out, "Successfully deleted %d audit log(s) older than %d day(s)\n", count, days)
	}
}

// outputCleanJSON outputs the result in JSON format for machine consumption.
func outputCleanJSON(out io.Writer, count int64, days int, dryRun bool) {
	result := map[string]any{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(out, string(jsonBytes))
}
