// Package http provides HTTP handlers for server-wide settings.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/proxyadmin/internal/setting/http/dto"
	"github.com/allisson/proxyadmin/internal/setting/usecase"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/httputil"
	customValidation "github.com/allisson/proxyadmin/internal/validation"
)

// SettingHandler handles HTTP requests for settings.
type SettingHandler struct {
	settingUseCase usecase.SettingUseCase
	logger         *slog.Logger
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingUseCase usecase.SettingUseCase, logger *slog.Logger) *SettingHandler {
	return &SettingHandler{
		settingUseCase: settingUseCase,
		logger:         logger,
	}
}

func settingID(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.Param("setting_id"))
	if id == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "invalid setting id")
	}
	return id, nil
}

// GetSettingHandler retrieves a single setting.
// GET /v1/settings/:setting_id - Requires settings:get (admin).
func (h *SettingHandler) GetSettingHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := settingID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	setting, err := h.settingUseCase.Get(c.Request.Context(), access, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSettingToResponse(setting))
}

// ListSettingsHandler lists all settings.
// GET /v1/settings - Requires settings:list (admin).
func (h *SettingHandler) ListSettingsHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	settings, err := h.settingUseCase.List(c.Request.Context(), access)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSettingsToListResponse(settings))
}

// UpdateSettingHandler replaces the mutable fields of a setting.
// PUT /v1/settings/:setting_id - Requires settings:update (admin).
func (h *SettingHandler) UpdateSettingHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := settingID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	setting, err := h.settingUseCase.Update(c.Request.Context(), access, id, req.ToUpdateSettingInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSettingToResponse(setting))
}
