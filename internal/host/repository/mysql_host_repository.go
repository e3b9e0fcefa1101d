package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/host/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLHostRepository handles host persistence for MySQL.
type MySQLHostRepository struct {
	db *sql.DB
}

// NewMySQLHostRepository creates a new MySQLHostRepository.
func NewMySQLHostRepository(db *sql.DB) *MySQLHostRepository {
	return &MySQLHostRepository{db: db}
}

// Create inserts a new host record.
func (r *MySQLHostRepository) Create(ctx context.Context, host *domain.Host) error {
	querier := database.GetTx(ctx, r.db)

	domainNames, meta, err := encodeHostJSON(host)
	if err != nil {
		return err
	}

	query := `INSERT INTO hosts (type, owner_user_id, domain_names, forward_host, forward_port,
			  access_list_id, forward_domain_name, forward_http_code, preserve_path,
			  certificate_id, ssl_forced, caching_enabled, block_exploits, advanced_config,
			  enabled, is_deleted, meta, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query,
		string(host.Type), host.OwnerUserID, domainNames, host.ForwardHost, host.ForwardPort,
		host.AccessListID, host.ForwardDomainName, host.ForwardHTTPCode, host.PreservePath,
		host.CertificateID, host.SSLForced, host.CachingEnabled, host.BlockExploits,
		host.AdvancedConfig, host.Enabled, meta,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create host")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read host id")
	}
	host.ID = id

	created, err := r.GetByID(ctx, host.Type, id)
	if err != nil {
		return err
	}
	host.CreatedAt = created.CreatedAt
	host.UpdatedAt = created.UpdatedAt

	return nil
}

// GetByID retrieves a non-deleted host of the given type.
func (r *MySQLHostRepository) GetByID(
	ctx context.Context,
	hostType domain.Type,
	id int64,
) (*domain.Host, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + hostColumns + ` FROM hosts
			  WHERE id = ? AND type = ? AND is_deleted = FALSE`

	row := querier.QueryRowContext(ctx, query, id, string(hostType))
	host, err := scanHost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHostNotFound
		}
		return nil, err
	}
	return host, nil
}

// List returns non-deleted hosts of the given type ordered by ID. A non-zero
// ownerID restricts the result to that owner's hosts.
func (r *MySQLHostRepository) List(
	ctx context.Context,
	hostType domain.Type,
	ownerID int64,
	offset, limit int,
) ([]*domain.Host, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + hostColumns + ` FROM hosts
			  WHERE type = ? AND is_deleted = FALSE`
	args := []any{string(hostType)}

	if ownerID > 0 {
		query += ` AND owner_user_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list hosts")
	}
	defer func() { _ = rows.Close() }()

	hosts := make([]*domain.Host, 0)
	for rows.Next() {
		host, err := scanHost(rows)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, host)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate hosts")
	}

	return hosts, nil
}

// Update modifies the mutable fields of an existing host.
func (r *MySQLHostRepository) Update(ctx context.Context, host *domain.Host) error {
	querier := database.GetTx(ctx, r.db)

	domainNames, meta, err := encodeHostJSON(host)
	if err != nil {
		return err
	}

	query := `UPDATE hosts SET domain_names = ?, forward_host = ?, forward_port = ?,
			  access_list_id = ?, forward_domain_name = ?, forward_http_code = ?,
			  preserve_path = ?, certificate_id = ?, ssl_forced = ?, caching_enabled = ?,
			  block_exploits = ?, advanced_config = ?, enabled = ?, meta = ?,
			  updated_at = NOW()
			  WHERE id = ? AND type = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query,
		domainNames, host.ForwardHost, host.ForwardPort,
		host.AccessListID, host.ForwardDomainName, host.ForwardHTTPCode,
		host.PreservePath, host.CertificateID, host.SSLForced, host.CachingEnabled,
		host.BlockExploits, host.AdvancedConfig, host.Enabled, meta,
		host.ID, string(host.Type),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update host")
	}

	return requireRowAffected(result, domain.ErrHostNotFound)
}

// SetEnabled flips the enabled flag of a host.
func (r *MySQLHostRepository) SetEnabled(
	ctx context.Context,
	hostType domain.Type,
	id int64,
	enabled bool,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE hosts SET enabled = ?, updated_at = NOW()
			  WHERE id = ? AND type = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, enabled, id, string(hostType))
	if err != nil {
		return apperrors.Wrap(err, "failed to set host enabled state")
	}

	return requireRowAffected(result, domain.ErrHostNotFound)
}

// SoftDelete marks a host as deleted without removing the row.
func (r *MySQLHostRepository) SoftDelete(
	ctx context.Context,
	hostType domain.Type,
	id int64,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE hosts SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = ? AND type = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id, string(hostType))
	if err != nil {
		return apperrors.Wrap(err, "failed to delete host")
	}

	return requireRowAffected(result, domain.ErrHostNotFound)
}

// Count returns the number of non-deleted hosts of the given type, optionally
// restricted to one owner.
func (r *MySQLHostRepository) Count(
	ctx context.Context,
	hostType domain.Type,
	ownerID int64,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM hosts WHERE type = ? AND is_deleted = FALSE`
	args := []any{string(hostType)}
	if ownerID > 0 {
		query += ` AND owner_user_id = ?`
		args = append(args, ownerID)
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count hosts")
	}
	return count, nil
}
