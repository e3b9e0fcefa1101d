// Package http provides HTTP handlers for the audit log.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	"github.com/allisson/proxyadmin/internal/audit/http/dto"
	"github.com/allisson/proxyadmin/internal/audit/usecase"
	"github.com/allisson/proxyadmin/internal/httputil"
)

// AuditLogHandler handles HTTP requests for the audit log.
type AuditLogHandler struct {
	auditLogUseCase usecase.AuditLogUseCase
	logger          *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler.
func NewAuditLogHandler(auditLogUseCase usecase.AuditLogUseCase, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// ListHandler lists audit log entries newest first.
// GET /v1/audit-log?offset=0&limit=50 - Requires audit_log:list.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	entries, err := h.auditLogUseCase.List(c.Request.Context(), access, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntriesToListResponse(entries))
}
