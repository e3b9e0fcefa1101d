// Package usecase contains the business logic for settings.
package usecase

import (
	"context"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/setting/domain"
)

// SettingRepository defines the interface for setting data access. Settings
// are seeded by migrations, so there is no create or delete.
type SettingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Setting, error)
	List(ctx context.Context) ([]*domain.Setting, error)
	Update(ctx context.Context, setting *domain.Setting) error
}

// SettingUseCase defines the interface for setting business logic. All
// operations are restricted to administrators.
type SettingUseCase interface {
	Get(ctx context.Context, access *accessUseCase.Context, id string) (*domain.Setting, error)
	List(ctx context.Context, access *accessUseCase.Context) ([]*domain.Setting, error)
	Update(ctx context.Context, access *accessUseCase.Context, id string, input *domain.UpdateSettingInput) (*domain.Setting, error)
}
