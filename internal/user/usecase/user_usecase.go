package usecase

import (
	"context"
	"slices"

	"github.com/allisson/go-pwdhash"
	validation "github.com/jellydator/validation"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/database"
	"github.com/allisson/proxyadmin/internal/user/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// userUseCase implements UserUseCase.
type userUseCase struct {
	txManager      database.TxManager
	userRepo       UserRepository
	authRepo       AuthRepository
	passwordHasher *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	authRepo AuthRepository,
) (UserUseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &userUseCase{
		txManager:      txManager,
		userRepo:       userRepo,
		authRepo:       authRepo,
		passwordHasher: hasher,
	}, nil
}

func validRoles(value any) error {
	roles, ok := value.([]string)
	if !ok {
		return validation.NewError("validation_roles_type", "roles must be a list of strings")
	}
	for _, role := range roles {
		if role != accessDomain.AdminRole {
			return validation.NewError("validation_roles_unknown", "unknown role: "+role)
		}
	}
	return nil
}

func (u *userUseCase) validateCreateInput(input *domain.CreateUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&input.Nickname,
			validation.Length(0, 50),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 150),
		),
		validation.Field(&input.Roles,
			validation.By(validRoles),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128),
		),
	)
	return appValidation.WrapValidationError(err)
}

func (u *userUseCase) validateUpdateInput(input *domain.UpdateUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&input.Nickname,
			validation.Length(0, 50),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 150),
		),
		validation.Field(&input.Roles,
			validation.By(validRoles),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create registers a new user with an initial password. The user row and its
// password row are written in one transaction.
func (u *userUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	input *domain.CreateUserInput,
) (*domain.User, error) {
	if err := access.Can(ctx, "users:create", nil); err != nil {
		return nil, err
	}
	if err := u.validateCreateInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := u.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		Name:     input.Name,
		Nickname: input.Nickname,
		Email:    input.Email,
		Roles:    slices.Clone(input.Roles),
	}

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return u.authRepo.Upsert(ctx, &domain.Auth{
			UserID: user.ID,
			Type:   domain.AuthTypePassword,
			Secret: hashedPassword,
		})
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID.
func (u *userUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
) (*domain.User, error) {
	if err := access.Can(ctx, "users:get", userID); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// List returns non-deleted users.
func (u *userUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.User, error) {
	if err := access.Can(ctx, "users:list", nil); err != nil {
		return nil, err
	}
	return u.userRepo.List(ctx, offset, limit)
}

// Update modifies a user's profile fields. Users acting on themselves keep
// their current roles and enabled state; only another caller may change
// those.
func (u *userUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
	input *domain.UpdateUserInput,
) (*domain.User, error) {
	if err := access.Can(ctx, "users:update", userID); err != nil {
		return nil, err
	}
	if err := u.validateUpdateInput(input); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted {
		return nil, domain.ErrUserNotFound
	}

	user.Name = input.Name
	user.Nickname = input.Nickname
	user.Email = input.Email
	if !u.actingOnSelf(access, userID) {
		user.Roles = slices.Clone(input.Roles)
		user.IsDisabled = input.IsDisabled
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft-deletes a user.
func (u *userUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
) error {
	if err := access.Can(ctx, "users:delete", userID); err != nil {
		return err
	}
	if u.actingOnSelf(access, userID) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "you cannot delete yourself")
	}
	return u.userRepo.SoftDelete(ctx, userID)
}

// SetPassword replaces a user's password. Callers changing their own
// password must present the current one; admins changing someone else's do
// not.
func (u *userUseCase) SetPassword(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
	input *SetPasswordInput,
) error {
	if err := access.Can(ctx, "users:password", userID); err != nil {
		return err
	}

	err := validation.Validate(input.Secret,
		validation.Required.Error("secret is required"),
		validation.Length(8, 128),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	if u.actingOnSelf(access, userID) {
		auth, err := u.authRepo.GetByUserID(ctx, userID, domain.AuthTypePassword)
		if err != nil {
			return err
		}
		ok, err := u.passwordHasher.Verify([]byte(input.Current), auth.Secret)
		if err != nil || !ok {
			return apperrors.NewAuthError("current password is incorrect", err)
		}
	}

	hashedPassword, err := u.passwordHasher.Hash([]byte(input.Secret))
	if err != nil {
		return apperrors.Wrap(err, "failed to hash password")
	}

	return u.authRepo.Upsert(ctx, &domain.Auth{
		UserID: userID,
		Type:   domain.AuthTypePassword,
		Secret: hashedPassword,
	})
}

// SetPermissions replaces a user's capability profile.
func (u *userUseCase) SetPermissions(
	ctx context.Context,
	access *accessUseCase.Context,
	userID int64,
	profile *accessDomain.Profile,
) error {
	if err := access.Can(ctx, "users:permissions", userID); err != nil {
		return err
	}

	if profile == nil || !profile.Visibility.Valid() {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "visibility must be all or own")
	}
	for resource, level := range profile.Capabilities {
		if !slices.Contains(accessDomain.OwnedResourceTypes, resource) {
			return apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown resource type %q", resource)
		}
		if !level.Valid() {
			return apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown capability level %q", level)
		}
	}

	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	return u.userRepo.SetPermissions(ctx, userID, profile)
}

func (u *userUseCase) actingOnSelf(access *accessUseCase.Context, userID int64) bool {
	return !access.IsInternal() && access.User() != nil && access.User().ID == userID
}
