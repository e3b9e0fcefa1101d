package usecase

import (
	"context"
	"errors"
	"slices"

	"github.com/allisson/go-pwdhash"
	validation "github.com/jellydator/validation"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/config"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	tokenService "github.com/allisson/proxyadmin/internal/token/service"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config         *config.Config
	userRepo       UserRepository
	authRepo       AuthRepository
	signer         tokenService.Signer
	passwordHasher *pwdhash.PasswordHasher
}

// NewTokenUseCase creates a new TokenUseCase.
func NewTokenUseCase(
	cfg *config.Config,
	userRepo UserRepository,
	authRepo AuthRepository,
	signer tokenService.Signer,
) (TokenUseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &tokenUseCase{
		config:         cfg,
		userRepo:       userRepo,
		authRepo:       authRepo,
		signer:         signer,
		passwordHasher: hasher,
	}, nil
}

func (t *tokenUseCase) validateRequestInput(input *tokenDomain.RequestTokenInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Identity,
			validation.Required.Error("identity is required"),
			appValidation.NotBlank,
			appValidation.Email,
		),
		validation.Field(&input.Secret,
			validation.Required.Error("secret is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Request authenticates an identity by email and password and issues a token.
//
// Unknown identities and wrong passwords both return the same auth error so
// that the endpoint cannot be used to probe which emails exist.
func (t *tokenUseCase) Request(
	ctx context.Context,
	input *tokenDomain.RequestTokenInput,
) (*tokenDomain.TokenOutput, error) {
	if err := t.validateRequestInput(input); err != nil {
		return nil, err
	}

	user, err := t.userRepo.GetActiveByEmail(ctx, input.Identity)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, apperrors.NewAuthError("invalid email or password", err)
		}
		return nil, err
	}

	auth, err := t.authRepo.GetByUserID(ctx, user.ID, userDomain.AuthTypePassword)
	if err != nil {
		if errors.Is(err, userDomain.ErrAuthNotFound) {
			return nil, apperrors.NewAuthError("invalid email or password", err)
		}
		return nil, err
	}

	ok, err := t.passwordHasher.Verify([]byte(input.Secret), auth.Secret)
	if err != nil || !ok {
		return nil, apperrors.NewAuthError("invalid email or password", err)
	}

	scope := input.Scope
	if scope == "" {
		scope = tokenDomain.UserScope
	}
	if scope != tokenDomain.UserScope && !slices.Contains(user.Roles, scope) {
		return nil, apperrors.NewAuthError("invalid scope", nil)
	}

	return t.issue(user.ID, []string{scope}, input.Expiry)
}

// Refresh issues a fresh token for the caller, keeping its subject and scope.
func (t *tokenUseCase) Refresh(
	ctx context.Context,
	access *accessUseCase.Context,
	expiry string,
) (*tokenDomain.TokenOutput, error) {
	if err := access.Resolve(ctx); err != nil {
		return nil, err
	}

	user := access.User()
	if user == nil {
		return nil, apperrors.NewAuthError("token does not resolve to a user", nil)
	}
	return t.issue(user.ID, access.Claims().Scope, expiry)
}

// SignInAs issues a user-scoped token for another user.
func (t *tokenUseCase) SignInAs(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
) (*tokenDomain.TokenOutput, *userDomain.User, error) {
	if err := access.Can(ctx, accessDomain.PermissionKey("users:loginas"), userID); err != nil {
		return nil, nil, err
	}

	user, err := t.userRepo.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, nil, apperrors.Wrap(apperrors.ErrNotFound, "user not found")
		}
		return nil, nil, err
	}

	output, err := t.issue(user.ID, []string{tokenDomain.UserScope}, "")
	if err != nil {
		return nil, nil, err
	}
	return output, user, nil
}

func (t *tokenUseCase) issue(userID int64, scope []string, expiry string) (*tokenDomain.TokenOutput, error) {
	if expiry == "" {
		expiry = t.config.TokenDefaultExpiry
	}
	ttl, err := tokenDomain.ParseExpiry(expiry)
	if err != nil {
		return nil, err
	}

	claims := &tokenDomain.Claims{
		Attributes: tokenDomain.Attributes{ID: userID},
		Scope:      scope,
	}
	signed, signedClaims, err := t.signer.Sign(claims, ttl)
	if err != nil {
		return nil, err
	}

	return &tokenDomain.TokenOutput{
		Token:   signed,
		Expires: signedClaims.ExpiresAt.Time,
	}, nil
}
