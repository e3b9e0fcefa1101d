// Package http attaches per-request access contexts for authorization checks.
package http

import (
	"context"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
)

// accessKey is a context key type for storing access contexts.
type accessKey struct{}

// WithAccess stores an access context in the request context.
// This is typically called by the access middleware.
func WithAccess(ctx context.Context, access *accessUseCase.Context) context.Context {
	return context.WithValue(ctx, accessKey{}, access)
}

// GetAccess retrieves the caller's access context.
// Returns (access, true) if present, or (nil, false) if the middleware did not run.
// Handlers call this before every guarded operation.
func GetAccess(ctx context.Context) (*accessUseCase.Context, bool) {
	access, ok := ctx.Value(accessKey{}).(*accessUseCase.Context)
	return access, ok
}
