package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/proxyadmin/internal/accesslist/domain"
	"github.com/allisson/proxyadmin/internal/database"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLAccessListRepository handles access list persistence for MySQL.
type MySQLAccessListRepository struct {
	db *sql.DB
}

// NewMySQLAccessListRepository creates a new MySQLAccessListRepository.
func NewMySQLAccessListRepository(db *sql.DB) *MySQLAccessListRepository {
	return &MySQLAccessListRepository{db: db}
}

// Create inserts a new access list record.
func (r *MySQLAccessListRepository) Create(ctx context.Context, list *domain.AccessList) error {
	querier := database.GetTx(ctx, r.db)

	authItems, clientRules, meta, err := encodeAccessListJSON(list)
	if err != nil {
		return err
	}

	query := `INSERT INTO access_lists (owner_user_id, name, satisfy_any, pass_auth,
			  auth_items, client_rules, is_deleted, meta, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, FALSE, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query,
		list.OwnerUserID, list.Name, list.SatisfyAny, list.PassAuth,
		authItems, clientRules, meta,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access list")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read access list id")
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	list.ID = created.ID
	list.CreatedAt = created.CreatedAt
	list.UpdatedAt = created.UpdatedAt

	return nil
}

// GetByID retrieves a non-deleted access list.
func (r *MySQLAccessListRepository) GetByID(ctx context.Context, id int64) (*domain.AccessList, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accessListColumns + ` FROM access_lists WHERE id = ? AND is_deleted = FALSE`

	row := querier.QueryRowContext(ctx, query, id)
	list, err := scanAccessList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccessListNotFound
		}
		return nil, err
	}
	return list, nil
}

// List returns non-deleted access lists ordered by ID. A non-zero ownerID
// restricts the result to that owner's lists.
func (r *MySQLAccessListRepository) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.AccessList, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accessListColumns + ` FROM access_lists WHERE is_deleted = FALSE`
	args := []any{}

	if ownerID > 0 {
		query += ` AND owner_user_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access lists")
	}
	defer func() { _ = rows.Close() }()

	lists := make([]*domain.AccessList, 0)
	for rows.Next() {
		list, err := scanAccessList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access lists")
	}

	return lists, nil
}

// Update modifies the mutable fields of an existing access list.
func (r *MySQLAccessListRepository) Update(ctx context.Context, list *domain.AccessList) error {
	querier := database.GetTx(ctx, r.db)

	authItems, clientRules, meta, err := encodeAccessListJSON(list)
	if err != nil {
		return err
	}

	query := `UPDATE access_lists SET name = ?, satisfy_any = ?, pass_auth = ?,
			  auth_items = ?, client_rules = ?, meta = ?, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query,
		list.Name, list.SatisfyAny, list.PassAuth, authItems, clientRules, meta, list.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update access list")
	}

	return requireRowAffected(result, domain.ErrAccessListNotFound)
}

// SoftDelete marks an access list as deleted without removing the row.
func (r *MySQLAccessListRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE access_lists SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete access list")
	}

	return requireRowAffected(result, domain.ErrAccessListNotFound)
}
