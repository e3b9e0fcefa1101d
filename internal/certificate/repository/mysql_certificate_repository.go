package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/proxyadmin/internal/certificate/domain"
	"github.com/allisson/proxyadmin/internal/database"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLCertificateRepository handles certificate persistence for MySQL.
type MySQLCertificateRepository struct {
	db *sql.DB
}

// NewMySQLCertificateRepository creates a new MySQLCertificateRepository.
func NewMySQLCertificateRepository(db *sql.DB) *MySQLCertificateRepository {
	return &MySQLCertificateRepository{db: db}
}

// Create inserts a new certificate record.
func (r *MySQLCertificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	querier := database.GetTx(ctx, r.db)

	domainNames, meta, err := encodeCertificateJSON(cert)
	if err != nil {
		return err
	}

	query := `INSERT INTO certificates (owner_user_id, provider, nice_name, domain_names,
			  expires_on, is_deleted, meta, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, FALSE, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query,
		cert.OwnerUserID, cert.Provider, cert.NiceName, domainNames, cert.ExpiresOn, meta,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create certificate")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read certificate id")
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	cert.ID = created.ID
	cert.CreatedAt = created.CreatedAt
	cert.UpdatedAt = created.UpdatedAt

	return nil
}

// GetByID retrieves a non-deleted certificate.
func (r *MySQLCertificateRepository) GetByID(ctx context.Context, id int64) (*domain.Certificate, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = ? AND is_deleted = FALSE`

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
func (r *MySQLCertificateRepository) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Certificate, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE is_deleted = FALSE`
	args := []any{}

	if ownerID > 0 {
		query += ` AND owner_user_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

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
func (r *MySQLCertificateRepository) Update(ctx context.Context, cert *domain.Certificate) error {
	querier := database.GetTx(ctx, r.db)

	domainNames, meta, err := encodeCertificateJSON(cert)
	if err != nil {
		return err
	}

	query := `UPDATE certificates SET nice_name = ?, domain_names = ?, expires_on = ?,
			  meta = ?, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query,
		cert.NiceName, domainNames, cert.ExpiresOn, meta, cert.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update certificate")
	}

	return requireRowAffected(result, domain.ErrCertificateNotFound)
}

// SoftDelete marks a certificate as deleted without removing the row.
func (r *MySQLCertificateRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE certificates SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete certificate")
	}

	return requireRowAffected(result, domain.ErrCertificateNotFound)
}
