package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/proxyadmin/internal/audit/domain"
	"github.com/allisson/proxyadmin/internal/database"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLAuditLogRepository implements audit log persistence for MySQL. UUIDs
// are stored as 36-character strings.
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQL audit log repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}

// Create inserts a new audit log entry. Nil meta is stored as NULL.
func (m *MySQLAuditLogRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, m.db)

	metaJSON, err := encodeMeta(entry.Meta)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_log (id, user_id, object_type, object_id, action, meta, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		entry.ID.String(), entry.UserID, entry.ObjectType, entry.ObjectID,
		entry.Action, metaJSON, entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log entry")
	}

	return nil
}

// List retrieves audit log entries newest first with pagination.
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, object_type, object_id, action, meta, created_at
			  FROM audit_log
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit log entries")
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// CountOlderThan counts entries created before the cutoff, for dry runs.
func (m *MySQLAuditLogRepository) CountOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE created_at < ?`, cutoff,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit log entries")
	}
	return count, nil
}

// DeleteOlderThan removes entries created before the cutoff and returns how
// many rows were deleted.
func (m *MySQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx,
		`DELETE FROM audit_log WHERE created_at < ?`, cutoff,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit log entries")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return deleted, nil
}
