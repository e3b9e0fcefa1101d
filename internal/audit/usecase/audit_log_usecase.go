package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/audit/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// auditLogUseCase implements AuditLogUseCase.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
}

// NewAuditLogUseCase creates a new AuditLogUseCase.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository) AuditLogUseCase {
	return &auditLogUseCase{auditLogRepo: auditLogRepo}
}

// Record persists one entry attributed to the access context's identity.
// Internal actors record with a zero user ID.
func (a *auditLogUseCase) Record(
	ctx context.Context,
	access *accessUseCase.Context,
	objectType string,
	objectID int64,
	action string,
	meta map[string]any,
) error {
	var userID int64
	if access != nil && access.User() != nil {
		userID = access.User().ID
	}

	entry := &domain.Entry{
		ID:         uuid.Must(uuid.NewV7()),
		UserID:     userID,
		ObjectType: objectType,
		ObjectID:   objectID,
		Action:     action,
		Meta:       meta,
		CreatedAt:  time.Now().UTC(),
	}

	if err := a.auditLogRepo.Create(ctx, entry); err != nil {
		return apperrors.Wrap(err, "failed to record audit log entry")
	}
	return nil
}

// List returns entries newest first. Admin only.
func (a *auditLogUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.Entry, error) {
	if err := access.Can(ctx, "audit_log:list", nil); err != nil {
		return nil, err
	}
	return a.auditLogRepo.List(ctx, offset, limit)
}

// Clean deletes entries older than the given number of days. With dryRun it
// only reports how many entries would go.
func (a *auditLogUseCase) Clean(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days <= 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be a positive integer")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	if dryRun {
		return a.auditLogRepo.CountOlderThan(ctx, cutoff)
	}
	return a.auditLogRepo.DeleteOlderThan(ctx, cutoff)
}
