// Package usecase implements business logic for nginx host management.
package usecase

import (
	"context"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/host/domain"
)

// HostRepository defines the persistence operations for hosts. Every
// operation is keyed by the host kind so one kind can never reach another's
// rows.
type HostRepository interface {
	Create(ctx context.Context, host *domain.Host) error
	GetByID(ctx context.Context, hostType domain.Type, id int64) (*domain.Host, error)
	List(ctx context.Context, hostType domain.Type, ownerID int64, offset, limit int) ([]*domain.Host, error)
	Update(ctx context.Context, host *domain.Host) error
	SetEnabled(ctx context.Context, hostType domain.Type, id int64, enabled bool) error
	SoftDelete(ctx context.Context, hostType domain.Type, id int64) error
	Count(ctx context.Context, hostType domain.Type, ownerID int64) (int64, error)
}

// StreamCounter supplies the stream count for the hosts report. A non-zero
// ownerID restricts the count to that owner.
type StreamCounter interface {
	Count(ctx context.Context, ownerID int64) (int64, error)
}

// HostUseCase defines the host management operations. All of them take the
// host kind explicitly; the three kinds share one implementation.
type HostUseCase interface {
	// Create registers a new host owned by the caller. Internal callers may
	// assign ownership through the input.
	Create(
		ctx context.Context,
		access *accessUseCase.Context,
		hostType domain.Type,
		input *domain.CreateHostInput,
	) (*domain.Host, error)

	// Get retrieves a single host visible to the caller.
	Get(
		ctx context.Context,
		access *accessUseCase.Context,
		hostType domain.Type,
		id int64,
	) (*domain.Host, error)

	// List returns the hosts visible to the caller, owner scoped unless the
	// caller sees all objects.
	List(
		ctx context.Context,
		access *accessUseCase.Context,
		hostType domain.Type,
		offset, limit int,
	) ([]*domain.Host, error)

	// Update replaces the mutable fields of a host.
	Update(
		ctx context.Context,
		access *accessUseCase.Context,
		hostType domain.Type,
		id int64,
		input *domain.UpdateHostInput,
	) (*domain.Host, error)

	// Delete soft-deletes a host.
	Delete(
		ctx context.Context,
		access *accessUseCase.Context,
		hostType domain.Type,
		id int64,
	) error

	// SetEnabled enables or disables a host and returns its new state.
	SetEnabled(
		ctx context.Context,
		access *accessUseCase.Context,
		hostType domain.Type,
		id int64,
		enabled bool,
	) (*domain.Host, error)

	// Report aggregates the host and stream counts visible to the caller.
	Report(ctx context.Context, access *accessUseCase.Context) (*domain.Report, error)
}
