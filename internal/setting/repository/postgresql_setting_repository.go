// Package repository provides data persistence implementations for settings.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/setting/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// PostgreSQLSettingRepository handles setting persistence for PostgreSQL.
type PostgreSQLSettingRepository struct {
	db *sql.DB
}

// NewPostgreSQLSettingRepository creates a new PostgreSQLSettingRepository.
func NewPostgreSQLSettingRepository(db *sql.DB) *PostgreSQLSettingRepository {
	return &PostgreSQLSettingRepository{db: db}
}

const settingColumns = `id, name, description, value, meta, created_at, updated_at`

// GetByID retrieves a setting by its string key.
func (r *PostgreSQLSettingRepository) GetByID(ctx context.Context, id string) (*domain.Setting, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + settingColumns + ` FROM settings WHERE id = $1`

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

// List returns all settings ordered by ID. The settings table is small and
// fixed by migrations, so there is no pagination.
func (r *PostgreSQLSettingRepository) List(ctx context.Context) ([]*domain.Setting, error) {
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
func (r *PostgreSQLSettingRepository) Update(ctx context.Context, setting *domain.Setting) error {
	querier := database.GetTx(ctx, r.db)

	value, meta, err := encodeSettingJSON(setting)
	if err != nil {
		return err
	}

	query := `UPDATE settings SET name = $1, description = $2, value = $3, meta = $4,
			  updated_at = NOW() WHERE id = $5`

	result, err := querier.ExecContext(ctx, query,
		setting.Name, setting.Description, value, meta, setting.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update setting")
	}

	return requireRowAffected(result, domain.ErrSettingNotFound)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSetting(row rowScanner) (*domain.Setting, error) {
	var (
		setting domain.Setting
		value   []byte
		meta    []byte
	)

	err := row.Scan(
		&setting.ID, &setting.Name, &setting.Description, &value, &meta,
		&setting.CreatedAt, &setting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, apperrors.Wrap(err, "failed to scan setting")
	}

	if err := json.Unmarshal(value, &setting.Value); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode setting value")
	}
	if meta != nil {
		if err := json.Unmarshal(meta, &setting.Meta); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode setting meta")
		}
	}

	return &setting, nil
}

// encodeSettingJSON marshals the value and meta columns. Value is NOT NULL in
// the schema; a nil meta is stored as SQL NULL.
func encodeSettingJSON(setting *domain.Setting) (value, meta []byte, err error) {
	value, err = json.Marshal(setting.Value)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to encode setting value")
	}
	if setting.Meta != nil {
		meta, err = json.Marshal(setting.Meta)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "failed to encode setting meta")
		}
	}
	return value, meta, nil
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
