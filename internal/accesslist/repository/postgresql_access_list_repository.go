// Package repository provides data persistence implementations for access
// lists.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/allisson/proxyadmin/internal/accesslist/domain"
	"github.com/allisson/proxyadmin/internal/database"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// PostgreSQLAccessListRepository handles access list persistence for
// PostgreSQL.
type PostgreSQLAccessListRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccessListRepository creates a new
// PostgreSQLAccessListRepository.
func NewPostgreSQLAccessListRepository(db *sql.DB) *PostgreSQLAccessListRepository {
	return &PostgreSQLAccessListRepository{db: db}
}

const accessListColumns = `id, owner_user_id, name, satisfy_any, pass_auth,
	auth_items, client_rules, is_deleted, meta, created_at, updated_at`

// Create inserts a new access list record.
func (r *PostgreSQLAccessListRepository) Create(ctx context.Context, list *domain.AccessList) error {
	querier := database.GetTx(ctx, r.db)

	authItems, clientRules, meta, err := encodeAccessListJSON(list)
	if err != nil {
		return err
	}

	query := `INSERT INTO access_lists (owner_user_id, name, satisfy_any, pass_auth,
			  auth_items, client_rules, is_deleted, meta, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = querier.QueryRowContext(ctx, query,
		list.OwnerUserID, list.Name, list.SatisfyAny, list.PassAuth,
		authItems, clientRules, meta,
	).Scan(&list.ID, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access list")
	}

	return nil
}

// GetByID retrieves a non-deleted access list.
func (r *PostgreSQLAccessListRepository) GetByID(ctx context.Context, id int64) (*domain.AccessList, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accessListColumns + ` FROM access_lists WHERE id = $1 AND is_deleted = FALSE`

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
func (r *PostgreSQLAccessListRepository) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.AccessList, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + accessListColumns + ` FROM access_lists WHERE is_deleted = FALSE`
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
func (r *PostgreSQLAccessListRepository) Update(ctx context.Context, list *domain.AccessList) error {
	querier := database.GetTx(ctx, r.db)

	authItems, clientRules, meta, err := encodeAccessListJSON(list)
	if err != nil {
		return err
	}

	query := `UPDATE access_lists SET name = $1, satisfy_any = $2, pass_auth = $3,
			  auth_items = $4, client_rules = $5, meta = $6, updated_at = NOW()
			  WHERE id = $7 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query,
		list.Name, list.SatisfyAny, list.PassAuth, authItems, clientRules, meta, list.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update access list")
	}

	return requireRowAffected(result, domain.ErrAccessListNotFound)
}

// SoftDelete marks an access list as deleted without removing the row.
func (r *PostgreSQLAccessListRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE access_lists SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = $1 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete access list")
	}

	return requireRowAffected(result, domain.ErrAccessListNotFound)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccessList(row rowScanner) (*domain.AccessList, error) {
	var (
		list        domain.AccessList
		authItems   []byte
		clientRules []byte
		meta        []byte
	)

	err := row.Scan(
		&list.ID, &list.OwnerUserID, &list.Name, &list.SatisfyAny, &list.PassAuth,
		&authItems, &clientRules, &list.IsDeleted, &meta, &list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, apperrors.Wrap(err, "failed to scan access list")
	}

	if err := json.Unmarshal(authItems, &list.AuthItems); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode access list auth items")
	}
	if err := json.Unmarshal(clientRules, &list.ClientRules); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode access list client rules")
	}
	if meta != nil {
		if err := json.Unmarshal(meta, &list.Meta); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode access list meta")
		}
	}

	return &list, nil
}

func encodeAccessListJSON(list *domain.AccessList) (authItems, clientRules, meta []byte, err error) {
	items := list.AuthItems
	if items == nil {
		items = []domain.AuthItem{}
	}
	authItems, err = json.Marshal(items)
	if err != nil {
		return nil, nil, nil, apperrors.Wrap(err, "failed to encode access list auth items")
	}

	rules := list.ClientRules
	if rules == nil {
		rules = []domain.ClientRule{}
	}
	clientRules, err = json.Marshal(rules)
	if err != nil {
		return nil, nil, nil, apperrors.Wrap(err, "failed to encode access list client rules")
	}

	if list.Meta != nil {
		meta, err = json.Marshal(list.Meta)
		if err != nil {
			return nil, nil, nil, apperrors.Wrap(err, "failed to encode access list meta")
		}
	}

	return authItems, clientRules, meta, nil
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
