// Package repository provides database-backed object enumeration for the
// authorization engine.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	"github.com/allisson/proxyadmin/internal/database"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// resourceTable maps an owned resource type to the table holding its rows.
// Host flavors share one table and are told apart by the type column.
type resourceTable struct {
	name     string
	hostType string
}

var resourceTables = map[accessDomain.ResourceType]resourceTable{
	accessDomain.ResourceProxyHosts:       {name: "hosts", hostType: "proxy"},
	accessDomain.ResourceRedirectionHosts: {name: "hosts", hostType: "redirection"},
	accessDomain.ResourceDeadHosts:        {name: "hosts", hostType: "dead"},
	accessDomain.ResourceStreams:          {name: "streams"},
	accessDomain.ResourceAccessLists:      {name: "access_lists"},
	accessDomain.ResourceCertificates:     {name: "certificates"},
}

// PostgreSQLOwnershipRepository enumerates governed row IDs on PostgreSQL.
type PostgreSQLOwnershipRepository struct {
	db *sql.DB
}

// NewPostgreSQLOwnershipRepository creates a new PostgreSQLOwnershipRepository.
func NewPostgreSQLOwnershipRepository(db *sql.DB) *PostgreSQLOwnershipRepository {
	return &PostgreSQLOwnershipRepository{
		db: db,
	}
}

// ListResourceIDs returns the IDs of the non-deleted rows of the given
// resource type, restricted to ownerID's rows when ownedOnly is true.
func (r *PostgreSQLOwnershipRepository) ListResourceIDs(
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
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if ownedOnly {
		args = append(args, ownerID)
		query += fmt.Sprintf(" AND owner_user_id = $%d", len(args))
	}
	query += " ORDER BY id"

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to list %s ids", resource)
	}
	defer rows.Close()

	return scanIDs(rows, resource)
}

func scanIDs(rows *sql.Rows, resource accessDomain.ResourceType) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrapf(err, "failed to scan %s id", resource)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(err, "failed to list %s ids", resource)
	}
	return ids, nil
}
