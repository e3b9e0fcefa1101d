package usecase

import (
	"context"
	"log/slog"

	validation "github.com/jellydator/validation"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	auditDomain "github.com/allisson/proxyadmin/internal/audit/domain"
	auditUseCase "github.com/allisson/proxyadmin/internal/audit/usecase"
	"github.com/allisson/proxyadmin/internal/setting/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// settingUseCase implements SettingUseCase.
type settingUseCase struct {
	settingRepo SettingRepository
	auditor     auditUseCase.Recorder
	logger      *slog.Logger
}

// NewSettingUseCase creates a new SettingUseCase.
func NewSettingUseCase(
	settingRepo SettingRepository,
	auditor auditUseCase.Recorder,
	logger *slog.Logger,
) SettingUseCase {
	return &settingUseCase{
		settingRepo: settingRepo,
		auditor:     auditor,
		logger:      logger,
	}
}

func validateSettingFields(setting *domain.Setting) error {
	err := validation.ValidateStruct(setting,
		validation.Field(&setting.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&setting.Description,
			validation.Length(0, 255),
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	if setting.Value == nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "value is required")
	}
	return nil
}

// Get retrieves a single setting.
func (s *settingUseCase) Get(
	ctx context.Context,
	access *accessUseCase.Context,
	id string,
) (*domain.Setting, error) {
	if err := access.Can(ctx, "settings:get", nil); err != nil {
		return nil, err
	}
	return s.settingRepo.GetByID(ctx, id)
}

// List returns all settings.
func (s *settingUseCase) List(
	ctx context.Context,
	access *accessUseCase.Context,
) ([]*domain.Setting, error) {
	if err := access.Can(ctx, "settings:list", nil); err != nil {
		return nil, err
	}
	return s.settingRepo.List(ctx)
}

// Update replaces the mutable fields of a setting. Setting keys are fixed by
// migrations, so an unknown id is a not-found, never an insert.
func (s *settingUseCase) Update(
	ctx context.Context,
	access *accessUseCase.Context,
	id string,
	input *domain.UpdateSettingInput,
) (*domain.Setting, error) {
	if err := access.Can(ctx, "settings:update", nil); err != nil {
		return nil, err
	}

	setting, err := s.settingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	setting.Name = input.Name
	setting.Description = input.Description
	setting.Value = input.Value
	setting.Meta = input.Meta

	if err := validateSettingFields(setting); err != nil {
		return nil, err
	}
	if err := s.settingRepo.Update(ctx, setting); err != nil {
		return nil, err
	}

	s.record(ctx, access, setting, auditDomain.ActionUpdated)
	return setting, nil
}

// record writes an audit entry. Settings have string keys while the audit log
// stores numeric object IDs, so the key travels in the meta payload.
func (s *settingUseCase) record(
	ctx context.Context,
	access *accessUseCase.Context,
	setting *domain.Setting,
	action string,
) {
	meta := map[string]any{"setting_id": setting.ID}
	err := s.auditor.Record(ctx, access, domain.ObjectType, 0, action, meta)
	if err != nil {
		s.logger.Warn("failed to record audit log entry",
			slog.String("object_type", domain.ObjectType),
			slog.String("setting_id", setting.ID),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
