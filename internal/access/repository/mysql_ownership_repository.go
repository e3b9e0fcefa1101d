package repository

import (
	"context"
	"database/sql"
	"fmt"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	"github.com/allisson/proxyadmin/internal/database"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLOwnershipRepository enumerates governed row IDs on MySQL.
type MySQLOwnershipRepository struct {
	db *sql.DB
}

// NewMySQLOwnershipRepository creates a new MySQLOwnershipRepository.
func NewMySQLOwnershipRepository(db *sql.DB) *MySQLOwnershipRepository {
	return &MySQLOwnershipRepository{
		db: db,
	}
}

// ListResourceIDs returns the IDs of the non-deleted rows of the given
// resource type, restricted to ownerID's rows when ownedOnly is true.
func (r *MySQLOwnershipRepository) ListResourceIDs(
	ctx context.Context,
	resource accessDomain.ResourceType,
	ownerID int64,
	ownedOnly bool,
) ([]int64, error) {
	table, ok := resourceTables[resource]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "resource type %q has no backing table", resource)
	}

	querier := database.GetTx(ctx, r.db)

	query := fmt.Sprintf("SELECT id FROM %s WHERE is_deleted = FALSE", table.name)
	args := []any{}
	if table.hostType != "" {
		args = append(args, table.hostType)
		query += " AND type = ?"
	}
	if ownedOnly {
		args = append(args, ownerID)
		query += " AND owner_user_id = ?"
	}
	query += " ORDER BY id"

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to list %s ids", resource)
	}
	defer rows.Close()

	return scanIDs(rows, resource)
}
