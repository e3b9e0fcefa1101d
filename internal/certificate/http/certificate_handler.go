// Package http provides HTTP handlers for certificate record management.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/proxyadmin/internal/certificate/http/dto"
	"github.com/allisson/proxyadmin/internal/certificate/usecase"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/httputil"
	customValidation "github.com/allisson/proxyadmin/internal/validation"
)

// CertificateHandler handles HTTP requests for certificates.
type CertificateHandler struct {
	certUseCase usecase.CertificateUseCase
	logger      *slog.Logger
}

// NewCertificateHandler creates a new CertificateHandler.
func NewCertificateHandler(certUseCase usecase.CertificateUseCase, logger *slog.Logger) *CertificateHandler {
	return &CertificateHandler{
		certUseCase: certUseCase,
		logger:      logger,
	}
}

func certificateID(c *gin.Context) (int64, error) {
	param := c.Param("certificate_id")
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid certificate id %q", param)
	}
	return id, nil
}

// CreateCertificateHandler registers a new certificate owned by the caller.
// POST /v1/nginx/certificates - Requires certificates:create.
func (h *CertificateHandler) CreateCertificateHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	var req dto.CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	cert, err := h.certUseCase.Create(c.Request.Context(), access, req.ToCreateCertificateInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCertificateToResponse(cert))
}

// GetCertificateHandler retrieves a single certificate.
// GET /v1/nginx/certificates/:certificate_id - Requires certificates:get.
func (h *CertificateHandler) GetCertificateHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := certificateID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	cert, err := h.certUseCase.Get(c.Request.Context(), access, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCertificateToResponse(cert))
}

// ListCertificatesHandler lists the certificates visible to the caller.
// GET /v1/nginx/certificates?offset=0&limit=50 - Requires certificates:list.
func (h *CertificateHandler) ListCertificatesHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	certs, err := h.certUseCase.List(c.Request.Context(), access, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCertificatesToListResponse(certs))
}

// UpdateCertificateHandler replaces the mutable fields of a certificate.
// PUT /v1/nginx/certificates/:certificate_id - Requires certificates:update.
func (h *CertificateHandler) UpdateCertificateHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := certificateID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	cert, err := h.certUseCase.Update(c.Request.Context(), access, id, req.ToUpdateCertificateInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCertificateToResponse(cert))
}

// DeleteCertificateHandler soft-deletes a certificate.
// DELETE /v1/nginx/certificates/:certificate_id - Requires certificates:delete.
func (h *CertificateHandler) DeleteCertificateHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := certificateID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.certUseCase.Delete(c.Request.Context(), access, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
