// Package repository provides data persistence implementations for
// certificates.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/allisson/proxyadmin/internal/certificate/domain"
	"github.com/allisson/proxyadmin/internal/database"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// PostgreSQLCertificateRepository handles certificate persistence for
// PostgreSQL.
type PostgreSQLCertificateRepository struct {
	db *sql.DB
}

// NewPostgreSQLCertificateRepository creates a new
// PostgreSQLCertificateRepository.
func NewPostgreSQLCertificateRepository(db *sql.DB) *PostgreSQLCertificateRepository {
	return &PostgreSQLCertificateRepository{db: db}
}

const certificateColumns = `id, owner_user_id, provider, nice_name, domain_names,
	expires_on, is_deleted, meta, created_at, updated_at`

// Create inserts a new certificate record.
func (r *PostgreSQLCertificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	querier := database.GetTx(ctx, r.db)

	domainNames, meta, err := encodeCertificateJSON(cert)
	if err != nil {
		return err
	}

	query := `INSERT INTO certificates (owner_user_id, provider, nice_name, domain_names,
			  expires_on, is_deleted, meta, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, FALSE, $6, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = querier.QueryRowContext(ctx, query,
		cert.OwnerUserID, cert.Provider, cert.NiceName, domainNames, cert.ExpiresOn, meta,
	).Scan(&cert.ID, &cert.CreatedAt, &cert.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create certificate")
	}

	return nil
}

// GetByID retrieves a non-deleted certificate.
func (r *PostgreSQLCertificateRepository) GetByID(ctx context.Context, id int64) (*domain.Certificate, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1 AND is_deleted = FALSE`

	row := querier.QueryRowContext(ctx, query, id)
	cert, err := scanCertificate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

// List returns non-deleted certificates ordered by ID. A non-zero ownerID
// restricts the result to that owner's certificates.
func (r *PostgreSQLCertificateRepository) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Certificate, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE is_deleted = FALSE`
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
		return nil, apperrors.Wrap(err, "failed to list certificates")
	}
	defer func() { _ = rows.Close() }()

	certs := make([]*domain.Certificate, 0)
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate certificates")
	}

	return certs, nil
}

// Update modifies the mutable fields of an existing certificate.
func (r *PostgreSQLCertificateRepository) Update(ctx context.Context, cert *domain.Certificate) error {
	querier := database.GetTx(ctx, r.db)

	domainNames, meta, err := encodeCertificateJSON(cert)
	if err != nil {
		return err
	}

	query := `UPDATE certificates SET nice_name = $1, domain_names = $2, expires_on = $3,
			  meta = $4, updated_at = NOW()
			  WHERE id = $5 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query,
		cert.NiceName, domainNames, cert.ExpiresOn, meta, cert.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update certificate")
	}

	return requireRowAffected(result, domain.ErrCertificateNotFound)
}

// SoftDelete marks a certificate as deleted without removing the row.
func (r *PostgreSQLCertificateRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE certificates SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = $1 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete certificate")
	}

	return requireRowAffected(result, domain.ErrCertificateNotFound)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row rowScanner) (*domain.Certificate, error) {
	var (
		cert        domain.Certificate
		domainNames []byte
		meta        []byte
	)

	err := row.Scan(
		&cert.ID, &cert.OwnerUserID, &cert.Provider, &cert.NiceName, &domainNames,
		&cert.ExpiresOn, &cert.IsDeleted, &meta, &cert.CreatedAt, &cert.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, apperrors.Wrap(err, "failed to scan certificate")
	}

	if err := json.Unmarshal(domainNames, &cert.DomainNames); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode certificate domain names")
	}
	if meta != nil {
		if err := json.Unmarshal(meta, &cert.Meta); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode certificate meta")
		}
	}

	return &cert, nil
}

func encodeCertificateJSON(cert *domain.Certificate) (domainNames, meta []byte, err error) {
	names := cert.DomainNames
	if names == nil {
		names = []string{}
	}
	domainNames, err = json.Marshal(names)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to encode certificate domain names")
	}

	if cert.Meta != nil {
		meta, err = json.Marshal(cert.Meta)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "failed to encode certificate meta")
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
