// Package usecase implements the user business logic: account lifecycle,
// password management and capability profiles, every operation guarded by the
// caller's access context.
package usecase

import (
	"context"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/user/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context
// propagation.
type UserRepository interface {
	// Create stores a new user and its capability profile.
	// Returns ErrUserAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *domain.User) error

	// Update modifies the mutable profile fields of an existing user.
	Update(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID regardless of state.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetActive retrieves a user that is neither soft-deleted nor disabled.
	GetActive(ctx context.Context, userID int64) (*domain.User, error)

	// GetActiveByEmail retrieves an active user by email.
	GetActiveByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns non-deleted users ordered by ID.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// SoftDelete marks a user as deleted without removing the row.
	SoftDelete(ctx context.Context, id int64) error

	// SetPermissions replaces the user's capability profile.
	SetPermissions(ctx context.Context, id int64, profile *accessDomain.Profile) error
}

// AuthRepository defines persistence operations for authentication secrets.
type AuthRepository interface {
	// GetByUserID retrieves the authentication row of the given type for a
	// user. Returns ErrAuthNotFound otherwise.
	GetByUserID(ctx context.Context, userID int64, authType string) (*domain.Auth, error)

	// Upsert creates or replaces the authentication row for a user and type.
	Upsert(ctx context.Context, auth *domain.Auth) error
}

// SetPasswordInput carries a password change request. Current is required
// when users change their own password; admins changing someone else's may
// omit it.
type SetPasswordInput struct {
	Current string
	Secret  string
}

// UserUseCase defines the user management operations. Every method checks
// the access context first; a denied check returns a PermissionError and
// leaves the store untouched.
type UserUseCase interface {
	// Create registers a new user with an initial password and capability
	// profile.
	Create(
		ctx context.Context,
		access *accessUseCase.Context,
		input *domain.CreateUserInput,
	) (*domain.User, error)

	// Get retrieves a user by ID.
	Get(ctx context.Context, access *accessUseCase.Context, userID int64) (*domain.User, error)

	// List returns non-deleted users.
	List(ctx context.Context, access *accessUseCase.Context, offset, limit int) ([]*domain.User, error)

	// Update modifies a user's profile fields.
	Update(
		ctx context.Context,
		access *accessUseCase.Context,
		userID int64,
		input *domain.UpdateUserInput,
	) (*domain.User, error)

	// Delete soft-deletes a user. Callers cannot delete themselves.
	Delete(ctx context.Context, access *accessUseCase.Context, userID int64) error

	// SetPassword replaces a user's password. Non-admin callers must supply
	// their current password.
	SetPassword(
		ctx context.Context,
		access *accessUseCase.Context,
		userID int64,
		input *SetPasswordInput,
	) error

	// SetPermissions replaces a user's capability profile.
	SetPermissions(
		ctx context.Context,
		access *accessUseCase.Context,
		userID int64,
		profile *accessDomain.Profile,
	) error
}
