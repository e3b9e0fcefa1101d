package usecase

import (
	"context"
	"log/slog"
	"slices"

	validation "github.com/jellydator/validation"

	"github.com/allisson/proxyadmin/internal/accesslist/domain"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	auditDomain "github.com/allisson/proxyadmin/internal/audit/domain"
	auditUseCase "github.com/allisson/proxyadmin/internal/audit/usecase"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// accessListUseCase implements AccessListUseCase.
type accessListUseCase struct {
	listRepo AccessListRepository
	auditor  auditUseCase.Recorder
	logger   *slog.Logger
}

// NewAccessListUseCase creates a new AccessListUseCase.
func NewAccessListUseCase(
	listRepo AccessListRepository,
	auditor auditUseCase.Recorder,
	logger *slog.Logger,
) AccessListUseCase {
	return &accessListUseCase{
		listRepo: listRepo,
		auditor:  auditor,
		logger:   logger,
	}
}

func validateAccessListFields(list *domain.AccessList) error {
	err := validation.ValidateStruct(list,
		validation.Field(&list.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	for _, item := range list.AuthItems {
		if item.Username == "" {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "auth item username is required")
		}
		if item.Password == "" {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "auth item password is required")
		}
	}
	for _, rule := range list.ClientRules {
		if rule.Address == "" {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "client rule address is required")
		}
		if rule.Directive != domain.DirectiveAllow && rule.Directive != domain.DirectiveDeny {
			return apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid client rule directive %q", rule.Directive)
		}
	}
	return nil
}

// Create registers a new access list owned by the caller.
func (a *accessListUseCase) Create(
	ctx context.Context,
	access *accessUseCase.Context,
	input *domain.CreateAccessListInput,
) (*domain.AccessList, error) {
	owner := input.OwnerUserID
	if !access.IsInternal() {
		if err := access.Resolve(ctx); err != nil {
			return nil, err
		}
		owner = access.UserID()
	}

	if err := access.Can(ctx, "access_lists:create", owner); err != nil {
		return nil, err
	}
	if owner <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "owner user id is required")
	}

	list := &domain.AccessList{
		OwnerUserID: owner,
		Name:        input.Name,
		SatisfyAny:  input.SatisfyAny,
		PassAuth:    input.PassAuth,
		AuthItems:   slices.Clone(input.AuthItems),
		ClientRules: slices.Clone(input.ClientRules),
		Meta:        input.Meta,
	}
	if err := validateAccessListFields(list); err != nil {
		return nil, err
	}

	if err := a.listRepo.Create(ctx, list); err != nil {
		return nil, err
	}

	// Later checks on the same context must see the new row.
	if _, err := access.ReloadObjects(ctx, "access_lists"); err != nil {
		a.logger.Warn("failed to refresh object enumeration after access list create",
			slog.Int64("access_list_id", list.ID),
			slog.String("error", err.Error()),
		)
	}

	a.record(ctx, access, list, auditDomain.ActionCreated)
	return list, nil
}

// Get retrieves a single access list.
func (a *accessListUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) (*domain.AccessList, error) {
	if err := access.Can(ctx, "access_lists:get", id); err != nil {
		return nil, err
	}
	return a.listRepo.GetByID(ctx, id)
}

// List returns the access lists visible to the caller.
func (a *accessListUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
	offset, limit int,
) ([]*domain.AccessList, error) {
	if err := access.Can(ctx, "access_lists:list", nil); err != nil {
		return nil, err
	}
	return a.listRepo.List(ctx, a.ownerScope(access), offset, limit)
}

// Update replaces the mutable fields of an access list.
func (a *accessListUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
	input *domain.UpdateAccessListInput,
) (*domain.AccessList, error) {
	if err := access.Can(ctx, "access_lists:update", id); err != nil {
		return nil, err
	}

	list, err := a.listRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list.Name = input.Name
	list.SatisfyAny = input.SatisfyAny
	list.PassAuth = input.PassAuth
	list.AuthItems = slices.Clone(input.AuthItems)
	list.ClientRules = slices.Clone(input.ClientRules)
	list.Meta = input.Meta

	if err := validateAccessListFields(list); err != nil {
		return nil, err
	}
	if err := a.listRepo.Update(ctx, list); err != nil {
		return nil, err
	}

	a.record(ctx, access, list, auditDomain.ActionUpdated)
	return list, nil
}

// Delete soft-deletes an access list.
func (a *accessListUseCase) Delete(
	ctx context.Context,
	access *accessUseCase.Context,
	id int64,
) error {
	if err := access.Can(ctx, "access_lists:delete", id); err != nil {
		return err
	}

	list, err := a.listRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := a.listRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	a.record(ctx, access, list, auditDomain.ActionDeleted)
	return nil
}

// ownerScope returns the owner filter for list queries: zero when the caller
// sees every object, the caller's own ID otherwise.
func (a *accessListUseCase) ownerScope(access *accessUseCase.Context) int64 {
	if access.SeesAllObjects() {
		return 0
	}
	return access.User().ID
}

func (a *accessListUseCase) record(
	ctx context.Context,
	access *accessUseCase.Context,
	list *domain.AccessList,
	action string,
) {
	meta := map[string]any{"name": list.Name}
	err := a.auditor.Record(ctx, access, domain.ObjectType, list.ID, action, meta)
	if err != nil {
		a.logger.Warn("failed to record audit log entry",
			slog.String("object_type", domain.ObjectType),
			slog.Int64("object_id", list.ID),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
