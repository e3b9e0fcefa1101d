package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/setting/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLSettingRepository handles setting persistence for MySQL.
type MySQLSettingRepository struct {
	db *sql.DB
}

// NewMySQLSettingRepository creates a new MySQLSettingRepository.
func NewMySQLSettingRepository(db *sql.DB) *MySQLSettingRepository {
	return &MySQLSettingRepository{db: db}
}

// GetByID retrieves a setting by its string key.
func (r *MySQLSettingRepository) GetByID(ctx context.Context, id string) (*domain.Setting, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + settingColumns + ` FROM settings WHERE id = ?`

	row := querier.QueryRowContext(ctx, query, id)
	setting, err := scanSetting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingNotFound
		}
		return nil, err
	}
	return setting, nil
}

// List returns all settings ordered by ID.
func (r *MySQLSettingRepository) List(ctx context.Context) ([]*domain.Setting, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + settingColumns + ` FROM settings ORDER BY id`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list settings")
	}
	defer func() { _ = rows.Close() }()

	settings := make([]*domain.Setting, 0)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate settings")
	}

	return settings, nil
}

// Update modifies the mutable fields of an existing setting.
func (r *MySQLSettingRepository) Update(ctx context.Context, setting *domain.Setting) error {
	querier := database.GetTx(ctx, r.db)

	value, meta, err := encodeSettingJSON(setting)
	if err != nil {
		return err
	}

	query := `UPDATE settings SET name = ?, description = ?, value = ?, meta = ?,
			  updated_at = NOW() WHERE id = ?`

	result, err := querier.ExecContext(ctx, query,
		setting.Name, setting.Description, value, meta, setting.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update setting")
	}

	return requireRowAffected(result, domain.ErrSettingNotFound)
}
