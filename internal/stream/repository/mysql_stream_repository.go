package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/stream/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLStreamRepository handles stream persistence for MySQL.
type MySQLStreamRepository struct {
	db *sql.DB
}

// NewMySQLStreamRepository creates a new MySQLStreamRepository.
func NewMySQLStreamRepository(db *sql.DB) *MySQLStreamRepository {
	return &MySQLStreamRepository{db: db}
}

// Create inserts a new stream record.
func (r *MySQLStreamRepository) Create(ctx context.Context, stream *domain.Stream) error {
	querier := database.GetTx(ctx, r.db)

	meta, err := encodeStreamMeta(stream)
	if err != nil {
		return err
	}

	query := `INSERT INTO streams (owner_user_id, incoming_port, forward_host, forwarding_port,
			  tcp_forwarding, udp_forwarding, enabled, is_deleted, meta, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, FALSE, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query,
		stream.OwnerUserID, stream.IncomingPort, stream.ForwardHost, stream.ForwardingPort,
		stream.TCPForwarding, stream.UDPForwarding, stream.Enabled, meta,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create stream")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read stream id")
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	stream.ID = created.ID
	stream.CreatedAt = created.CreatedAt
	stream.UpdatedAt = created.UpdatedAt

	return nil
}

// GetByID retrieves a non-deleted stream.
func (r *MySQLStreamRepository) GetByID(ctx context.Context, id int64) (*domain.Stream, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + streamColumns + ` FROM streams WHERE id = ? AND is_deleted = FALSE`

	row := querier.QueryRowContext(ctx, query, id)
	stream, err := scanStream(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStreamNotFound
		}
		return nil, err
	}
	return stream, nil
}

// List returns non-deleted streams ordered by ID. A non-zero ownerID
// restricts the result to that owner's streams.
func (r *MySQLStreamRepository) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Stream, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + streamColumns + ` FROM streams WHERE is_deleted = FALSE`
	args := []any{}

	if ownerID > 0 {
		query += ` AND owner_user_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list streams")
	}
	defer func() { _ = rows.Close() }()

	streams := make([]*domain.Stream, 0)
	for rows.Next() {
		stream, err := scanStream(rows)
		if err != nil {
			return nil, err
		}
		streams = append(streams, stream)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate streams")
	}

	return streams, nil
}

// Update modifies the mutable fields of an existing stream.
func (r *MySQLStreamRepository) Update(ctx context.Context, stream *domain.Stream) error {
	querier := database.GetTx(ctx, r.db)

	meta, err := encodeStreamMeta(stream)
	if err != nil {
		return err
	}

	query := `UPDATE streams SET incoming_port = ?, forward_host = ?, forwarding_port = ?,
			  tcp_forwarding = ?, udp_forwarding = ?, enabled = ?, meta = ?, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query,
		stream.IncomingPort, stream.ForwardHost, stream.ForwardingPort,
		stream.TCPForwarding, stream.UDPForwarding, stream.Enabled, meta, stream.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update stream")
	}

	return requireRowAffected(result, domain.ErrStreamNotFound)
}

// SetEnabled flips the enabled flag of a stream.
func (r *MySQLStreamRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE streams SET enabled = ?, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, enabled, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set stream enabled state")
	}

	return requireRowAffected(result, domain.ErrStreamNotFound)
}

// SoftDelete marks a stream as deleted without removing the row.
func (r *MySQLStreamRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE streams SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete stream")
	}

	return requireRowAffected(result, domain.ErrStreamNotFound)
}

// Count returns the number of non-deleted streams, optionally restricted to
// one owner.
func (r *MySQLStreamRepository) Count(ctx context.Context, ownerID int64) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM streams WHERE is_deleted = FALSE`
	args := []any{}
	if ownerID > 0 {
		query += ` AND owner_user_id = ?`
		args = append(args, ownerID)
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count streams")
	}
	return count, nil
}
