package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/httputil"
)

// AccessContextMiddleware mints one access context per request from the
// Authorization header and stores it in the request context.
//
// The middleware never rejects by itself: the credential is resolved lazily
// on the first authorization check, so requests to endpoints that perform no
// checks pass through untouched even with a missing or bad header. A missing
// header yields a context whose first check fails with 403.
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
//
// Usage:
//
//	router.Use(AccessContextMiddleware(engine, logger))
//	router.GET("/protected", func(c *gin.Context) {
//	    access, _ := GetAccess(c.Request.Context())
//	    if err := access.Can(c.Request.Context(), "proxy_hosts:list", nil); err != nil {
//	        httputil.HandleErrorGin(c, err, logger)
//	        return
//	    }
//	    // ...
//	})
func AccessContextMiddleware(engine *accessUseCase.Engine, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))

		access := engine.NewContext(tokenString)
		ctx := WithAccess(c.Request.Context(), access)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAccess retrieves the request's access context, aborting with 401
// when the middleware did not run. Handlers use it instead of GetAccess when
// a missing context is a programming error worth failing loudly on.
func RequireAccess(c *gin.Context, logger *slog.Logger) (*accessUseCase.Context, bool) {
	access, ok := GetAccess(c.Request.Context())
	if !ok || access == nil {
		logger.Error("request reached a guarded handler without an access context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		c.Abort()
		return nil, false
	}
	return access, true
}

// bearerToken extracts the token from an Authorization header value. It
// returns the empty string for a missing or malformed header; the resulting
// context then denies its first check.
func bearerToken(header string) string {
	const bearerPrefix = "bearer "
	if len(header) < len(bearerPrefix) ||
		!strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
