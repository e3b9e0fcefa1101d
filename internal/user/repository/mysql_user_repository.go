package repository

import (
	"context"
	"database/sql"
	"strings"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/user/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// MySQLUserRepository handles user persistence for MySQL.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user together with a default capability profile.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	roles, err := encodeRoles(user.Roles)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (name, nickname, email, roles, is_deleted, is_disabled, created_at, updated_at)
			  VALUES (?, ?, ?, ?, FALSE, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query,
		user.Name, user.Nickname, user.Email, roles, user.IsDisabled,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read created user id")
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
func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	roles, err := encodeRoles(user.Roles)
	if err != nil {
		return err
	}

	query := `UPDATE users SET name = ?, nickname = ?, email = ?, roles = ?,
			  is_disabled = ?, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query,
		user.Name, user.Nickname, user.Email, roles, user.IsDisabled, user.ID,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update user")
	}

	return requireRowAffected(result, domain.ErrUserNotFound)
}

// GetByID retrieves a user by ID regardless of state, with its capability profile.
func (r *MySQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := userSelectMySQL + ` WHERE u.id = ?`
	return r.getOne(ctx, query, id)
}

// GetActive retrieves a user by ID, requiring it to be neither soft deleted
// nor disabled.
func (r *MySQLUserRepository) GetActive(ctx context.Context, id int64) (*domain.User, error) {
	query := userSelectMySQL + ` WHERE u.id = ? AND u.is_deleted = FALSE AND u.is_disabled = FALSE`
	return r.getOne(ctx, query, id)
}

// GetActiveByEmail retrieves an active user by email, used for token issuance.
func (r *MySQLUserRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := userSelectMySQL + ` WHERE u.email = ? AND u.is_deleted = FALSE AND u.is_disabled = FALSE`
	return r.getOne(ctx, query, email)
}

// List returns non-deleted users ordered by ID.
func (r *MySQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := userSelectMySQL + ` WHERE u.is_deleted = FALSE ORDER BY u.id LIMIT ? OFFSET ?`

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
func (r *MySQLUserRepository) SoftDelete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET is_deleted = TRUE, updated_at = NOW()
			  WHERE id = ? AND is_deleted = FALSE`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user")
	}

	return requireRowAffected(result, domain.ErrUserNotFound)
}

// SetPermissions replaces the user's capability profile.
func (r *MySQLUserRepository) SetPermissions(
	ctx context.Context,
	id int64,
	profile *accessDomain.Profile,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO user_permissions
			  (user_id, visibility, proxy_hosts, redirection_hosts, dead_hosts, streams,
			   access_lists, certificates, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
			  ON DUPLICATE KEY UPDATE
			  visibility = VALUES(visibility),
			  proxy_hosts = VALUES(proxy_hosts),
			  redirection_hosts = VALUES(redirection_hosts),
			  dead_hosts = VALUES(dead_hosts),
			  streams = VALUES(streams),
			  access_lists = VALUES(access_lists),
			  certificates = VALUES(certificates),
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

// userSelectMySQL mirrors userSelectPG with MySQL placeholders.
const userSelectMySQL = `SELECT u.id, u.name, u.nickname, u.email, u.roles, u.is_deleted, u.is_disabled,
	u.created_at, u.updated_at,
	p.visibility, p.proxy_hosts, p.redirection_hosts, p.dead_hosts, p.streams, p.access_lists, p.certificates
	FROM users u
	LEFT JOIN user_permissions p ON p.user_id = u.id`

func (r *MySQLUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
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

// isMySQLDuplicateEntry checks if the error is a MySQL duplicate entry violation.
func isMySQLDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062 (23000): Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry")
}
