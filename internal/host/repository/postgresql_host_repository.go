// Package repository provides data persistence implementations for host records.
//
// All three host kinds live in one hosts table with a type discriminator;
// every query filters on it so one kind can never leak into another's
// results.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/host/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// PostgreSQLHostRepository handles host persistence for PostgreSQL.
type PostgreSQLHostRepository struct {
	db *sql.DB
}

// NewPostgreSQLHostRepository creates a new PostgreSQLHostRepository.
func NewPostgreSQLHostRepository(db *sql.DB) *PostgreSQLHostRepository {
	return &PostgreSQLHostRepository{db: db}
}

const hostColumns = `id, type, owner_user_id, domain_names, forward_host, forward_port,
	access_list_id, forward_domain_name, forward_http_code, preserve_path,
	certificate_id, ssl_forced, caching_enabled, block_exploits, advanced_config,
	enabled, is_deleted, meta, created_at, updated_at`

// Create inserts a new host record.
func (r *PostgreSQLHostRepository) Create(ctx context.Context, host *domain.Host) error {
	querier := database.GetTx(ctx, r.db)

	domainNames, meta, err := encodeHostJSON(host)
	if err != nil {
		return err
	}

	query := `INSERT INTO hosts (type, owner_user_id, domain_names, forward_host, forward_port,
			  access_list_id, forward_domain_name, forward_http_code, preserve_path,
			  certificate_id, ssl_forced, caching_enabled, block_exploits, advanced_config,
			  enabled, is_deleted, meta, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, FALSE, $16, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = querier.QueryRowContext(ctx, query,
		string(host.Type), host.OwnerUserID, domainNames, host.ForwardHost, host.ForwardPort,
		host.AccessListID, host.ForwardDomainName, host.ForwardHTTPCode, host.PreservePath,
		host.CertificateID, host.SSLForced, host.CachingEnabled, host.BlockExploits,
		host.AdvancedConfig, host.Enabled, meta,
	).Scan(&host.ID, &host.CreatedAt, &host.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create host")
	}

	return nil
}

// GetByID retrieves a non-deleted host of the given type.
func (r *PostgreSQLHostRepository) GetByID(
	ctx context.Context,
	hostType domain.Type,
	id int64,
) (*domain.Host, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + hostColumns + ` FROM hosts
			  WHERE id = $1 AND type = $2 AND is_deleted = FALSE`

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
func (r *PostgreSQLHostRepository) List(
	ctx context.Context,
	hostType domain.Type,
	ownerID int64,
	offset, limit int,
) ([]*domain.Host, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + hostColumns + ` FROM hosts
			  WHERE type = $1 AND is_deleted = FALSE`
	args := []any{string(hostType)}

	if ownerID > 0 {
		query += ` AND owner_user_id = $2`
		args = append(args, ownerID)
	}
	query += ` ORDER BY id LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
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
func (r *PostgreSQLHostRepository) Update(ctx context.Context, host *domain.Host) error {
	querier := database.GetTx(ctx, r.db)

	domainNames, meta, err := encodeHostJSON(host)
	if err != nil {
		return err
	}

	query := `UPDATE hosts SET domain_names = $1, forward_host = $2, forward_port = $3,
			  access_list_id = $4, forward_domain_name = $5, forward_http_code = $6,
			  preserve_path = $7, certificate_id = $8, ssl_forced = $9, caching_enabled = $10,
			  block_exploits = $11, advanced_config = $12, enabled = $13, meta = $14,
			  updated_at = NOW()
			  WHERE id = $15 AND type = $16 AND is_deleted = FALSE`

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
func (r *PostgreSQLHostRepository) SetEnabled(
	ctx context.Context,
	hostType domain.Type,
	id int64,
	enabled bool,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE hosts SET enabled = $1, updated_at = NOW()
			  WHERE id = $2 AND type = $3 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, enabled, id, string(hostType))
	if err != nil {
		return apperrors.Wrap(err, "failed to set host enabled state")
	}

	return requireRowAffected(result, domain.ErrHostNotFound)
}

// SoftDelete marks a host as deleted without removing the row.
func (r *PostgreSQLHostRepository) SoftDelete(
	ctx context.Context,
	hostType domain.Type,
	id int64,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE hosts SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = $1 AND type = $2 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id, string(hostType))
	if err != nil {
		return apperrors.Wrap(err, "failed to delete host")
	}

	return requireRowAffected(result, domain.ErrHostNotFound)
}

// Count returns the number of non-deleted hosts of the given type, optionally
// restricted to one owner.
func (r *PostgreSQLHostRepository) Count(
	ctx context.Context,
	hostType domain.Type,
	ownerID int64,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM hosts WHERE type = $1 AND is_deleted = FALSE`
	args := []any{string(hostType)}
	if ownerID > 0 {
		query += ` AND owner_user_id = $2`
		args = append(args, ownerID)
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count hosts")
	}
	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanHost(row rowScanner) (*domain.Host, error) {
	var (
		host        domain.Host
		hostType    string
		domainNames []byte
		meta        []byte
	)

	err := row.Scan(
		&host.ID, &hostType, &host.OwnerUserID, &domainNames, &host.ForwardHost,
		&host.ForwardPort, &host.AccessListID, &host.ForwardDomainName,
		&host.ForwardHTTPCode, &host.PreservePath, &host.CertificateID,
		&host.SSLForced, &host.CachingEnabled, &host.BlockExploits,
		&host.AdvancedConfig, &host.Enabled, &host.IsDeleted, &meta,
		&host.CreatedAt, &host.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, apperrors.Wrap(err, "failed to scan host")
	}

	host.Type = domain.Type(hostType)
	if len(domainNames) > 0 {
		if err := json.Unmarshal(domainNames, &host.DomainNames); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode host domain names")
		}
	}
	if meta != nil {
		if err := json.Unmarshal(meta, &host.Meta); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode host meta")
		}
	}

	return &host, nil
}

// encodeHostJSON serializes the JSON columns of a host.
func encodeHostJSON(host *domain.Host) (domainNames, meta []byte, err error) {
	names := host.DomainNames
	if names == nil {
		names = []string{}
	}
	domainNames, err = json.Marshal(names)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to encode host domain names")
	}

	if host.Meta != nil {
		meta, err = json.Marshal(host.Meta)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "failed to encode host meta")
		}
	}
	return domainNames, meta, nil
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
