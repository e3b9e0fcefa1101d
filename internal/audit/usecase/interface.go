// Package usecase implements business logic for the audit log.
package usecase

import (
	"context"
	"time"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/audit/domain"
)

// AuditLogRepository defines the persistence operations for audit log entries.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	List(ctx context.Context, offset, limit int) ([]*domain.Entry, error)
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Recorder is the write-side surface other usecases record entries through.
// Recording failures must not abort the operation being audited; callers log
// the returned error and move on.
type Recorder interface {
	Record(
		ctx context.Context,
		access *accessUseCase.Context,
		objectType string,
		objectID int64,
		action string,
		meta map[string]any,
	) error
}

// AuditLogUseCase defines the audit log operations.
type AuditLogUseCase interface {
	Recorder

	// List returns entries newest first. Admin only.
	List(
		ctx context.Context,
		access *accessUseCase.Context,
		offset, limit int,
	) ([]*domain.Entry, error)

	// Clean deletes entries older than the given number of days, or only
	// counts them when dryRun is set. Returns the affected row count.
	Clean(ctx context.Context, days int, dryRun bool) (int64, error)
}
