// Package repository provides data persistence implementations for user entities.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/user/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user together with a default capability profile.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	roles, err := encodeRoles(user.Roles)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (name, nickname, email, roles, is_deleted, is_disabled, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, FALSE, $5, NOW(), NOW())
			  RETURNING id`

	err = querier.QueryRowContext(ctx, query,
		user.Name, user.Nickname, user.Email, roles, user.IsDisabled,
	).Scan(&user.ID)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	profile := user.Permissions
	if profile == nil {
		profile = defaultProfile()
	}
	if err := r.SetPermissions(ctx, user.ID, profile); err != nil {
		return err
	}
	user.Permissions = profile

	return nil
}

// Update modifies the mutable profile fields of an existing user.
func (r *PostgreSQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	roles, err := encodeRoles(user.Roles)
	if err != nil {
		return err
	}

	query := `UPDATE users SET name = $1, nickname = $2, email = $3, roles = $4,
			  is_disabled = $5, updated_at = NOW()
			  WHERE id = $6 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query,
		user.Name, user.Nickname, user.Email, roles, user.IsDisabled, user.ID,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update user")
	}

	return requireRowAffected(result, domain.ErrUserNotFound)
}

// GetByID retrieves a user by ID regardless of state, with its capability profile.
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := userSelectPG + ` WHERE u.id = $1`
	return r.getOne(ctx, query, id)
}

// GetActive retrieves a user by ID, requiring it to be neither soft deleted
// nor disabled. This is the lookup the authorization engine resolves
// credentials through.
func (r *PostgreSQLUserRepository) GetActive(ctx context.Context, id int64) (*domain.User, error) {
	query := userSelectPG + ` WHERE u.id = $1 AND u.is_deleted = FALSE AND u.is_disabled = FALSE`
	return r.getOne(ctx, query, id)
}

// GetActiveByEmail retrieves an active user by email, used for token issuance.
func (r *PostgreSQLUserRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := userSelectPG + ` WHERE u.email = $1 AND u.is_deleted = FALSE AND u.is_disabled = FALSE`
	return r.getOne(ctx, query, email)
}

// List returns non-deleted users ordered by ID.
func (r *PostgreSQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := userSelectPG + ` WHERE u.is_deleted = FALSE ORDER BY u.id LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	return users, nil
}

// SoftDelete marks a user as deleted without removing the row.
func (r *PostgreSQLUserRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = $1 AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user")
	}

	return requireRowAffected(result, domain.ErrUserNotFound)
}

// SetPermissions replaces the user's capability profile.
func (r *PostgreSQLUserRepository) SetPermissions(
	ctx context.Context,
	id int64,
	profile *accessDomain.Profile,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO user_permissions
			  (user_id, visibility, proxy_hosts, redirection_hosts, dead_hosts, streams,
			   access_lists, certificates, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  ON CONFLICT (user_id) DO UPDATE SET
			  visibility = EXCLUDED.visibility,
			  proxy_hosts = EXCLUDED.proxy_hosts,
			  redirection_hosts = EXCLUDED.redirection_hosts,
			  dead_hosts = EXCLUDED.dead_hosts,
			  streams = EXCLUDED.streams,
			  access_lists = EXCLUDED.access_lists,
			  certificates = EXCLUDED.certificates,
			  updated_at = NOW()`

	_, err := querier.ExecContext(ctx, query,
		id,
		string(profile.Visibility),
		string(profile.Capability(accessDomain.ResourceProxyHosts)),
		string(profile.Capability(accessDomain.ResourceRedirectionHosts)),
		string(profile.Capability(accessDomain.ResourceDeadHosts)),
		string(profile.Capability(accessDomain.ResourceStreams)),
		string(profile.Capability(accessDomain.ResourceAccessLists)),
		string(profile.Capability(accessDomain.ResourceCertificates)),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to set user permissions")
	}

	return nil
}

// userSelectPG joins users with their capability profile. The left join keeps
// users without a profile row loadable; their profile defaults to no access.
const userSelectPG = `SELECT u.id, u.name, u.nickname, u.email, u.roles, u.is_deleted, u.is_disabled,
	u.created_at, u.updated_at,
	p.visibility, p.proxy_hosts, p.redirection_hosts, p.dead_hosts, p.streams, p.access_lists, p.certificates
	FROM users u
	LEFT JOIN user_permissions p ON p.user_id = u.id`

func (r *PostgreSQLUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, apperrors.Wrap(err, "failed to get user")
		}
		return nil, domain.ErrUserNotFound
	}

	return scanUser(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser decodes one joined user row, including the JSON roles column and
// the nullable profile columns.
func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		rolesJSON []byte

		visibility       sql.NullString
		proxyHosts       sql.NullString
		redirectionHosts sql.NullString
		deadHosts        sql.NullString
		streams          sql.NullString
		accessLists      sql.NullString
		certificates     sql.NullString
	)

	err := row.Scan(
		&user.ID, &user.Name, &user.Nickname, &user.Email, &rolesJSON,
		&user.IsDeleted, &user.IsDisabled, &user.CreatedAt, &user.UpdatedAt,
		&visibility, &proxyHosts, &redirectionHosts, &deadHosts, &streams,
		&accessLists, &certificates,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan user")
	}

	if len(rolesJSON) > 0 {
		if err := json.Unmarshal(rolesJSON, &user.Roles); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode user roles")
		}
	}

	if visibility.Valid {
		user.Permissions = &accessDomain.Profile{
			Visibility: accessDomain.Visibility(visibility.String),
			Capabilities: map[accessDomain.ResourceType]accessDomain.CapabilityLevel{
				accessDomain.ResourceProxyHosts:       accessDomain.CapabilityLevel(proxyHosts.String),
				accessDomain.ResourceRedirectionHosts: accessDomain.CapabilityLevel(redirectionHosts.String),
				accessDomain.ResourceDeadHosts:        accessDomain.CapabilityLevel(deadHosts.String),
				accessDomain.ResourceStreams:          accessDomain.CapabilityLevel(streams.String),
				accessDomain.ResourceAccessLists:      accessDomain.CapabilityLevel(accessLists.String),
				accessDomain.ResourceCertificates:     accessDomain.CapabilityLevel(certificates.String),
			},
		}
	}

	return &user, nil
}

// encodeRoles serializes the role set for storage.
func encodeRoles(roles []string) ([]byte, error) {
	if roles == nil {
		roles = []string{}
	}
	encoded, err := json.Marshal(roles)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode user roles")
	}
	return encoded, nil
}

// defaultProfile is the capability profile assigned to freshly created users:
// own-object visibility and manage on every owned resource type.
func defaultProfile() *accessDomain.Profile {
	capabilities := make(map[accessDomain.ResourceType]accessDomain.CapabilityLevel)
	for _, resource := range accessDomain.OwnedResourceTypes {
		capabilities[resource] = accessDomain.CapabilityManage
	}
	return &accessDomain.Profile{
		Visibility:   accessDomain.VisibilityOwn,
		Capabilities: capabilities,
	}
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

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
