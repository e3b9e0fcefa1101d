// Package usecase implements token issuance: password login, refresh and
// admin sign-in-as.
package usecase

import (
	"context"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"
)

// UserRepository defines the identity lookups token issuance needs.
type UserRepository interface {
	// GetActive retrieves a user that is neither soft-deleted nor disabled.
	// Returns ErrUserNotFound otherwise.
	GetActive(ctx context.Context, userID int64) (*userDomain.User, error)

	// GetActiveByEmail retrieves an active user by email.
	// Returns ErrUserNotFound otherwise.
	GetActiveByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// AuthRepository defines the secret lookups token issuance needs.
type AuthRepository interface {
	// GetByUserID retrieves the authentication row of the given type for a
	// user. Returns ErrAuthNotFound otherwise.
	GetByUserID(ctx context.Context, userID int64, authType string) (*userDomain.Auth, error)
}

// TokenUseCase defines the token issuance operations.
type TokenUseCase interface {
	// Request authenticates an identity by email and password and issues a
	// token. The requested scope must be one of the user's roles; unknown
	// identities and wrong passwords both fail with the same auth error.
	Request(ctx context.Context, input *tokenDomain.RequestTokenInput) (*tokenDomain.TokenOutput, error)

	// Refresh issues a fresh token for the caller behind the given access
	// context, preserving its subject and scope.
	Refresh(ctx context.Context, access *accessUseCase.Context, expiry string) (*tokenDomain.TokenOutput, error)

	// SignInAs issues a user-scoped token for another user. The caller must
	// hold the users:loginas permission. Returns the token and the target
	// user.
	SignInAs(
		ctx context.Context,
		access *accessUseCase.Context,
		userID int64,
	) (*tokenDomain.TokenOutput, *userDomain.User, error)
}
