// Package http provides HTTP handlers for nginx host management.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/host/domain"
	"github.com/allisson/proxyadmin/internal/host/http/dto"
	"github.com/allisson/proxyadmin/internal/host/usecase"
	"github.com/allisson/proxyadmin/internal/httputil"
	customValidation "github.com/allisson/proxyadmin/internal/validation"
)

// HostHandler handles HTTP requests for one host kind. The three kinds get
// one instance each, registered under their own route group.
type HostHandler struct {
	hostType    domain.Type
	hostUseCase usecase.HostUseCase
	logger      *slog.Logger
}

// NewHostHandler creates a host handler bound to the given host kind.
func NewHostHandler(
	hostType domain.Type,
	hostUseCase usecase.HostUseCase,
	logger *slog.Logger,
) *HostHandler {
	return &HostHandler{
		hostType:    hostType,
		hostUseCase: hostUseCase,
		logger:      logger,
	}
}

func hostID(c *gin.Context) (int64, error) {
	param := c.Param("host_id")
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid host id %q", param)
	}
	return id, nil
}

// CreateHostHandler registers a new host owned by the caller.
// POST /v1/nginx/{kind} - Requires <kind>:create.
func (h *HostHandler) CreateHostHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	var req dto.HostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	host, err := h.hostUseCase.Create(c.Request.Context(), access, h.hostType, req.ToCreateHostInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapHostToResponse(host))
}

// GetHostHandler retrieves a single host.
// GET /v1/nginx/{kind}/:host_id - Requires <kind>:get.
func (h *HostHandler) GetHostHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := hostID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	host, err := h.hostUseCase.Get(c.Request.Context(), access, h.hostType, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapHostToResponse(host))
}

// ListHostsHandler lists the hosts visible to the caller.
// GET /v1/nginx/{kind}?offset=0&limit=50 - Requires <kind>:list.
func (h *HostHandler) ListHostsHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	hosts, err := h.hostUseCase.List(c.Request.Context(), access, h.hostType, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapHostsToListResponse(hosts))
}

// UpdateHostHandler replaces the mutable fields of a host.
// PUT /v1/nginx/{kind}/:host_id - Requires <kind>:update.
func (h *HostHandler) UpdateHostHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := hostID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.HostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	host, err := h.hostUseCase.Update(c.Request.Context(), access, h.hostType, id, req.ToUpdateHostInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapHostToResponse(host))
}

// DeleteHostHandler soft-deletes a host.
// DELETE /v1/nginx/{kind}/:host_id - Requires <kind>:delete.
func (h *HostHandler) DeleteHostHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := hostID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.hostUseCase.Delete(c.Request.Context(), access, h.hostType, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetEnabledHandler enables or disables a host.
// PUT /v1/nginx/{kind}/:host_id/enabled - Requires <kind>:update.
func (h *HostHandler) SetEnabledHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := hostID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	host, err := h.hostUseCase.SetEnabled(c.Request.Context(), access, h.hostType, id, *req.Enabled)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapHostToResponse(host))
}

// ReportHandler serves the aggregate host report.
type ReportHandler struct {
	hostUseCase usecase.HostUseCase
	logger      *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(hostUseCase usecase.HostUseCase, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		hostUseCase: hostUseCase,
		logger:      logger,
	}
}

// HostsReportHandler returns the caller's visible host and stream counts.
// GET /v1/reports/hosts - Requires reports:hosts.
func (h *ReportHandler) HostsReportHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	report, err := h.hostUseCase.Report(c.Request.Context(), access)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, report)
}
