// Package usecase contains the business logic for access lists.
package usecase

import (
	"context"

	"github.com/allisson/proxyadmin/internal/accesslist/domain"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
)

// AccessListRepository defines the data access contract for access lists.
type AccessListRepository interface {
	Create(ctx context.Context, list *domain.AccessList) error
	GetByID(ctx context.Context, id int64) (*domain.AccessList, error)
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.AccessList, error)
	Update(ctx context.Context, list *domain.AccessList) error
	SoftDelete(ctx context.Context, id int64) error
}

// AccessListUseCase defines the business operations for access lists.
type AccessListUseCase interface {
	Create(ctx context.Context, access *accessUseCase.Context, input *domain.CreateAccessListInput) (*domain.AccessList, error)
	Get(ctx context.Context, access *accessUseCase.Context, id int64) (*domain.AccessList, error)
	List(ctx context.Context, access *accessUseCase.Context, offset, limit int) ([]*domain.AccessList, error)
	Update(ctx context.Context, access *accessUseCase.Context, id int64, input *domain.UpdateAccessListInput) (*domain.AccessList, error)
	Delete(ctx context.Context, access *accessUseCase.Context, id int64) error
}
