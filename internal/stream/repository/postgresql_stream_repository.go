// Package repository provides data persistence implementations for streams.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/stream/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// PostgreSQLStreamRepository handles stream persistence for PostgreSQL.
type PostgreSQLStreamRepository struct {
	db *sql.DB
}

// NewPostgreSQLStreamRepository creates a new PostgreSQLStreamRepository.
func NewPostgreSQLStreamRepository(db *sql.DB) *PostgreSQLStreamRepository {
	return &PostgreSQLStreamRepository{db: db}
}

const streamColumns = `id, owner_user_id, incoming_port, forward_host, forwarding_port,
	tcp_forwarding, udp_forwarding, enabled, is_deleted, meta, created_at, updated_at`

// Create inserts a new stream record.
func (r *PostgreSQLStreamRepository) Create(ctx context.Context, stream *domain.Stream) error {
	querier := database.GetTx(ctx, r.db)

	meta, err := encodeStreamMeta(stream)
	if err != nil {
		return err
	}

	query := `INSERT INTO streams (owner_user_id, incoming_port, forward_host, forwarding_port,
			  tcp_forwarding, udp_forwarding, enabled, is_deleted, meta, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = querier.QueryRowContext(ctx, query,
		stream.OwnerUserID, stream.IncomingPort, stream.ForwardHost, stream.ForwardingPort,
		stream.TCPForwarding, stream.UDPForwarding, stream.Enabled, meta,
	).Scan(&stream.ID, &stream.CreatedAt, &stream.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create stream")
	}

	return nil
}

// GetByID retrieves a non-deleted stream.
func (r *PostgreSQLStreamRepository) GetByID(ctx context.Context, id int64) (*domain.Stream, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + streamColumns + ` FROM streams WHERE id = $1 AND is_deleted = FALSE`

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
func (r *PostgreSQLStreamRepository) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Stream, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + streamColumns + ` FROM streams WHERE is_deleted = FALSE`
	args := []any{}

	if ownerID > 0 {
		query += ` AND owner_user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
		args = append(args, ownerID, limit, offset)
	} else {
		query += ` ORDER BY id LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

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
func (r *PostgreSQLStreamRepository) Update(ctx context.Context, stream *domain.Stream) error {
	querier := database.GetTx(ctx, r.db)

	meta, err := encodeStreamMeta(stream)
	if err != nil {
		return err
	}

	query := `UPDATE streams SET incoming_port = $1, forward_host = $2, forwarding_port = $3,
			  tcp_forwarding = $4, udp_forwarding = $5, enabled = $6, meta = $7, updated_at = NOW()
			  WHERE id = $8 AND is_deleted = FALSE`

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
func (r *PostgreSQLStreamRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE streams SET enabled = $1, updated_at = NOW()
			  WHERE id = $2 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, enabled, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set stream enabled state")
	}

	return requireRowAffected(result, domain.ErrStreamNotFound)
}

// SoftDelete marks a stream as deleted without removing the row.
func (r *PostgreSQLStreamRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE streams SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = $1 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete stream")
	}

	return requireRowAffected(result, domain.ErrStreamNotFound)
}

// Count returns the number of non-deleted streams, optionally restricted to
// one owner.
func (r *PostgreSQLStreamRepository) Count(ctx context.Context, ownerID int64) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM streams WHERE is_deleted = FALSE`
	args := []any{}
	if ownerID > 0 {
		query += ` AND owner_user_id = $1`
		args = append(args, ownerID)
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count streams")
	}
	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStream(row rowScanner) (*domain.Stream, error) {
	var (
		stream domain.Stream
		meta   []byte
	)

	err := row.Scan(
		&stream.ID, &stream.OwnerUserID, &stream.IncomingPort, &stream.ForwardHost,
		&stream.ForwardingPort, &stream.TCPForwarding, &stream.UDPForwarding,
		&stream.Enabled, &stream.IsDeleted, &meta, &stream.CreatedAt, &stream.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, apperrors.Wrap(err, "failed to scan stream")
	}

	if meta != nil {
		if err := json.Unmarshal(meta, &stream.Meta); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode stream meta")
		}
	}

	return &stream, nil
}

func encodeStreamMeta(stream *domain.Stream) ([]byte, error) {
	if stream.Meta == nil {
		return nil, nil
	}
	meta, err := json.Marshal(stream.Meta)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode stream meta")
	}
	return meta, nil
}

// requireRowAffected converts zero-row updates into the given domain error.
func requireRowAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
