// Package usecase implements the authorization engine: per-request access
// contexts that resolve a credential to an identity and evaluate permission
// checks against the compiled rule catalog.
package usecase

import (
	"context"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"
)

// IdentityRepository resolves credential subjects to persisted identities.
type IdentityRepository interface {
	// GetActive retrieves a user that is neither soft-deleted nor disabled,
	// including its capability profile. Returns ErrUserNotFound otherwise.
	GetActive(ctx context.Context, userID int64) (*userDomain.User, error)
}

// OwnershipRepository enumerates the IDs of governed rows for object-scope
// resolution. Implementations must support transaction-aware operations via
// context propagation.
type OwnershipRepository interface {
	// ListResourceIDs returns the IDs of the non-deleted rows of the given
	// resource type. When ownedOnly is true only rows owned by ownerID are
	// returned. The result may be empty; it is never an error for a resource
	// type to have no rows.
	ListResourceIDs(
		ctx context.Context,
		resource accessDomain.ResourceType,
		ownerID int64,
		ownedOnly bool,
	) ([]int64, error)
}
