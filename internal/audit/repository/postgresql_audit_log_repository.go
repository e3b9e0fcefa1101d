// Package repository provides data persistence implementations for audit log entries.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/allisson/proxyadmin/internal/audit/domain"
	"github.com/allisson/proxyadmin/internal/database"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// PostgreSQLAuditLogRepository implements audit log persistence for PostgreSQL.
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQL audit log repository.
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{db: db}
}

// Create inserts a new audit log entry. Nil meta is stored as NULL.
func (p *PostgreSQLAuditLogRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, p.db)

	metaJSON, err := encodeMeta(entry.Meta)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_log (id, user_id, object_type, object_id, action, meta, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.ObjectType, entry.ObjectID,
		entry.Action, metaJSON, entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log entry")
	}

	return nil
}

// List retrieves audit log entries newest first with pagination.
func (p *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, object_type, object_id, action, meta, created_at
			  FROM audit_log
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit log entries")
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// CountOlderThan counts entries created before the cutoff, for dry runs.
func (p *PostgreSQLAuditLogRepository) CountOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE created_at < $1`, cutoff,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit log entries")
	}
	return count, nil
}

// DeleteOlderThan removes entries created before the cutoff and returns how
// many rows were deleted.
func (p *PostgreSQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx,
		`DELETE FROM audit_log WHERE created_at < $1`, cutoff,
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

// encodeMeta serializes entry metadata, keeping nil as NULL.
func encodeMeta(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode audit log meta")
	}
	return encoded, nil
}

// scanEntries decodes the listed rows, tolerating NULL meta.
func scanEntries(rows *sql.Rows) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		var entry domain.Entry
		var metaJSON []byte

		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ObjectType, &entry.ObjectID,
			&entry.Action, &metaJSON, &entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log entry")
		}

		if metaJSON != nil {
			if err := json.Unmarshal(metaJSON, &entry.Meta); err != nil {
				return nil, apperrors.Wrap(err, "failed to decode audit log meta")
			}
		}

		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit log entries")
	}
	return entries, nil
}
