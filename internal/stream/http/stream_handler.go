// Package http provides HTTP handlers for TCP/UDP stream management.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/httputil"
	"github.com/allisson/proxyadmin/internal/stream/http/dto"
	"github.com/allisson/proxyadmin/internal/stream/usecase"
	customValidation "github.com/allisson/proxyadmin/internal/validation"
)

// StreamHandler handles HTTP requests for streams.
type StreamHandler struct {
	streamUseCase usecase.StreamUseCase
	logger        *slog.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(streamUseCase usecase.StreamUseCase, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		streamUseCase: streamUseCase,
		logger:        logger,
	}
}

func streamID(c *gin.Context) (int64, error) {
	param := c.Param("stream_id")
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid stream id %q", param)
	}
	return id, nil
}

// CreateStreamHandler registers a new stream owned by the caller.
// POST /v1/nginx/streams - Requires streams:create.
func (h *StreamHandler) CreateStreamHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	var req dto.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	stream, err := h.streamUseCase.Create(c.Request.Context(), access, req.ToCreateStreamInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapStreamToResponse(stream))
}

// GetStreamHandler retrieves a single stream.
// GET /v1/nginx/streams/:stream_id - Requires streams:get.
func (h *StreamHandler) GetStreamHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := streamID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	stream, err := h.streamUseCase.Get(c.Request.Context(), access, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStreamToResponse(stream))
}

// ListStreamsHandler lists the streams visible to the caller.
// GET /v1/nginx/streams?offset=0&limit=50 - Requires streams:list.
func (h *StreamHandler) ListStreamsHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	streams, err := h.streamUseCase.List(c.Request.Context(), access, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStreamsToListResponse(streams))
}

// UpdateStreamHandler replaces the mutable fields of a stream.
// PUT /v1/nginx/streams/:stream_id - Requires streams:update.
func (h *StreamHandler) UpdateStreamHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := streamID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	stream, err := h.streamUseCase.Update(c.Request.Context(), access, id, req.ToUpdateStreamInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStreamToResponse(stream))
}

// DeleteStreamHandler soft-deletes a stream.
// DELETE /v1/nginx/streams/:stream_id - Requires streams:delete.
func (h *StreamHandler) DeleteStreamHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := streamID(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.streamUseCase.Delete(c.Request.Context(), access, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetEnabledHandler enables or disables a stream.
// PUT /v1/nginx/streams/:stream_id/enabled - Requires streams:update.
func (h *StreamHandler) SetEnabledHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	id, err := streamID(c)
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

	stream, err := h.streamUseCase.SetEnabled(c.Request.Context(), access, id, *req.Enabled)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStreamToResponse(stream))
}
