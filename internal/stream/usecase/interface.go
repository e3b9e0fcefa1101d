// Package usecase contains the business logic for stream forwarding rules.
package usecase

import (
	"context"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/stream/domain"
)

// StreamRepository defines the data access contract for streams.
type StreamRepository interface {
	Create(ctx context.Context, stream *domain.Stream) error
	GetByID(ctx context.Context, id int64) (*domain.Stream, error)
	List(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Stream, error)
	Update(ctx context.Context, stream *domain.Stream) error
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	SoftDelete(ctx context.Context, id int64) error
	Count(ctx context.Context, ownerID int64) (int64, error)
}

// StreamUseCase defines the business operations for streams.
type StreamUseCase interface {
	Create(ctx context.Context, access *accessUseCase.Context, input *domain.CreateStreamInput) (*domain.Stream, error)
	Get(ctx context.Context, access *accessUseCase.Context, id int64) (*domain.Stream, error)
	List(ctx context.Context, access *accessUseCase.Context, offset, limit int) ([]*domain.Stream, error)
	Update(ctx context.Context, access *accessUseCase.Context, id int64, input *domain.UpdateStreamInput) (*domain.Stream, error)
	Delete(ctx context.Context, access *accessUseCase.Context, id int64) error
	SetEnabled(ctx context.Context, access *accessUseCase.Context, id int64, enabled bool) (*domain.Stream, error)
}
