package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/user/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// PostgreSQLAuthRepository handles password authentication rows for PostgreSQL.
type PostgreSQLAuthRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuthRepository creates a new PostgreSQLAuthRepository.
func NewPostgreSQLAuthRepository(db *sql.DB) *PostgreSQLAuthRepository {
	return &PostgreSQLAuthRepository{
		db: db,
	}
}

// GetByUserID retrieves the authentication row of the given type for a user.
func (r *PostgreSQLAuthRepository) GetByUserID(
	ctx context.Context,
	userID int64,
	authType string,
) (*domain.Auth, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, type, secret, created_at, updated_at
			  FROM auth WHERE user_id = $1 AND type = $2`

	var auth domain.Auth
	err := querier.QueryRowContext(ctx, query, userID, authType).Scan(
		&auth.ID, &auth.UserID, &auth.Type, &auth.Secret, &auth.CreatedAt, &auth.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuthNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get auth")
	}

	return &auth, nil
}

// Upsert creates or replaces the authentication row for a user and type.
func (r *PostgreSQLAuthRepository) Upsert(ctx context.Context, auth *domain.Auth) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO auth (user_id, type, secret, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  ON CONFLICT (user_id, type) DO UPDATE SET
			  secret = EXCLUDED.secret, updated_at = NOW()`

	_, err := querier.ExecContext(ctx, query, auth.UserID, auth.Type, auth.Secret)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert auth")
	}

	return nil
}
