// Package http provides HTTP handlers for access list management.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/proxyadmin/internal/accesslist/http/dto"
	"github.com/allisson/proxyadmin/internal/accesslist/usecase"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/httputil"
	customValidation "github.com/allisson/proxyadmin/internal/validation"
)

// AccessListHandler handles HTTP requests for access lists.
type AccessListHandler struct {
	listUseCase usecase.AccessListUseCase
	logger      *slog.Logger
}

// NewAccessListHandler creates a new AccessListHandler.
func NewAccessListHandler(listUseCase usecase.AccessListUseCase, logger *slog.Logger) *AccessListHandler {
	return &AccessListHandler{
		listUseCase: listUseCase,
		logger:      logger,
	}
}

func accessListID(c *gin.Context) (int64, error) {
	param := c.Param("access_list_id")
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid access list id %q", param)
	}
	return id, nil
}

// CreateAccessListHandler registers a new access list owned by the caller.
// POST /v1/nginx/access-lists - Requires access_lists:create.
func (h *AccessListHandler) CreateAccessListHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	var req dto.AccessListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	list, err := h.listUseCase.Create(c.Request.Context(), access, req.ToCreateAccessListInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAccessListToResponse(list))
}

// GetAccessListHandler retrieves a single access list.
// GET /v1/nginx/access-lists/:access_list_id - Requires access_lists:get.
func (h *AccessListHandler) GetAccessListHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := accessListID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	list, err := h.listUseCase.Get(c.Request.Context(), access, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccessListToResponse(list))
}

// ListAccessListsHandler lists the access lists visible to the caller.
// GET /v1/nginx/access-lists?offset=0&limit=50 - Requires access_lists:list.
func (h *AccessListHandler) ListAccessListsHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	lists, err := h.listUseCase.List(c.Request.Context(), access, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccessListsToListResponse(lists))
}

// UpdateAccessListHandler replaces the mutable fields of an access list.
// PUT /v1/nginx/access-lists/:access_list_id - Requires access_lists:update.
func (h *AccessListHandler) UpdateAccessListHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := accessListID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.AccessListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	list, err := h.listUseCase.Update(c.Request.Context(), access, id, req.ToUpdateAccessListInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccessListToResponse(list))
}

// DeleteAccessListHandler soft-deletes an access list.
// DELETE /v1/nginx/access-lists/:access_list_id - Requires access_lists:delete.
func (h *AccessListHandler) DeleteAccessListHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := accessListID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.listUseCase.Delete(c.Request.Context(), access, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
