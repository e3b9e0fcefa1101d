package usecase

import (
	"log/slog"

	"github.com/allisson/proxyadmin/internal/metrics"
	tokenService "github.com/allisson/proxyadmin/internal/token/service"
)

// Engine is the authorization engine. It holds the shared collaborators and
// mints one Context per request or per internal caller. The engine itself is
// immutable after construction and safe for concurrent use.
type Engine struct {
	signer     tokenService.Signer
	identities IdentityRepository
	ownership  OwnershipRepository
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(
	signer tokenService.Signer,
	identities IdentityRepository,
	ownership OwnershipRepository,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		signer:     signer,
		identities: identities,
		ownership:  ownership,
		metrics:    businessMetrics,
		logger:     logger,
	}
}

// NewContext returns an access context bound to the given credential string.
// The credential is not verified here; resolution happens on first use.
func (e *Engine) NewContext(tokenString string) *Context {
	return &Context{
		engine:      e,
		tokenString: tokenString,
	}
}

// NewInternalContext returns an access context for trusted in-process callers.
// Every check against it is allowed and no identity is resolved.
func (e *Engine) NewInternalContext() *Context {
	return &Context{
		engine:   e,
		internal: true,
	}
}
