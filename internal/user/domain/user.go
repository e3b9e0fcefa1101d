// Package domain defines the core user domain entities and types.
//
// A user is the persisted identity behind a credential: it carries roles,
// soft-delete and disabled flags, and a one-to-one capability profile that the
// authorization engine evaluates on every request.
package domain

import (
	"time"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	"github.com/allisson/proxyadmin/internal/errors"
)

// User represents a user in the system.
type User struct {
	ID         int64
	Name       string
	Nickname   string
	Email      string
	Roles      []string
	IsDeleted  bool
	IsDisabled bool
	// Permissions is the capability profile; nil when it was not loaded.
	Permissions *accessDomain.Profile
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Auth is a password authentication row for a user. The secret is an Argon2id
// hash, never the plain password.
type Auth struct {
	ID        int64
	UserID    int64
	Type      string
	Secret    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthTypePassword is the only authentication type currently supported.
const AuthTypePassword = "password"

// CreateUserInput contains the parameters for creating a new user.
type CreateUserInput struct {
	Name     string
	Nickname string
	Email    string
	Roles    []string
	Password string
}

// UpdateUserInput contains the mutable profile fields of an existing user.
type UpdateUserInput struct {
	Name       string
	Nickname   string
	Email      string
	Roles      []string
	IsDisabled bool
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrAuthNotFound indicates the user has no password authentication row.
	ErrAuthNotFound = errors.Wrap(errors.ErrNotFound, "auth not found")
)
