package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/user/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLAuthRepository handles password authentication rows for MySQL.
type MySQLAuthRepository struct {
	db *sql.DB
}

// NewMySQLAuthRepository creates a new MySQLAuthRepository.
func NewMySQLAuthRepository(db *sql.DB) *MySQLAuthRepository {
	return &MySQLAuthRepository{
		db: db,
	}
}

// GetByUserID retrieves the authentication row of the given type for a user.
func (r *MySQLAuthRepository) GetByUserID(
	ctx context.Context,
	userID int64,
	authType string,
) (*domain.Auth, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, type, secret, created_at, updated_at
			  FROM auth WHERE user_id = ? AND type = ?`

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
func (r *MySQLAuthRepository) Upsert(ctx context.Context, auth *domain.Auth) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO auth (user_id, type, secret, created_at, updated_at)
			  VALUES (?, ?, ?, NOW(), NOW())
			  ON DUPLICATE KEY UPDATE secret = VALUES(secret), updated_at = NOW()`

	_, err := querier.ExecContext(ctx, query, auth.UserID, auth.Type, auth.Secret)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert auth")
	}

	return nil
}
