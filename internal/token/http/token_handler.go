// Package http provides HTTP handlers for token issuance and refresh.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	"github.com/allisson/proxyadmin/internal/token/http/dto"
	tokenUseCase "github.com/allisson/proxyadmin/internal/token/usecase"

	"github.com/allisson/proxyadmin/internal/httputil"
	customValidation "github.com/allisson/proxyadmin/internal/validation"
)

// TokenHandler handles HTTP requests for token operations.
type TokenHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: useCase,
		logger:       logger,
	}
}

// RequestTokenHandler issues a new token from an email and password.
// POST /v1/tokens - No authentication required (this is the authentication endpoint).
// Returns 201 Created with the token and its expiry.
func (h *TokenHandler) RequestTokenHandler(c *gin.Context) {
	var req dto.RequestTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &tokenDomain.RequestTokenInput{
		Identity: req.Identity,
		Secret:   req.Secret,
		Scope:    req.Scope,
		Expiry:   req.Expiry,
	}

	output, err := h.tokenUseCase.Request(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTokenToResponse(output))
}

// RefreshTokenHandler issues a fresh token for the calling credential,
// keeping its subject and scope. The lifetime may be overridden with the
// expiry query parameter.
// GET /v1/tokens - Requires a valid token.
func (h *TokenHandler) RefreshTokenHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	output, err := h.tokenUseCase.Refresh(c.Request.Context(), access, c.Query("expiry"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenToResponse(output))
}
