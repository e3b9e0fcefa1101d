// Package http provides HTTP handlers for user management operations.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/httputil"
	tokenUseCase "github.com/allisson/proxyadmin/internal/token/usecase"
	"github.com/allisson/proxyadmin/internal/user/http/dto"
	"github.com/allisson/proxyadmin/internal/user/usecase"
	customValidation "github.com/allisson/proxyadmin/internal/validation"
)

// UserHandler handles HTTP requests for user management operations.
type UserHandler struct {
	userUseCase  usecase.UserUseCase
	tokenUseCase tokenUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(
	userUseCase usecase.UserUseCase,
	tokenUseCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase:  userUseCase,
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// userID parses the user_id path parameter. The literal "me" resolves to the
// calling user's ID, which requires the credential to be valid.
func (h *UserHandler) userID(c *gin.Context, access *accessUseCase.Context) (int64, error) {
	param := c.Param("user_id")
	if param == "me" {
		if err := access.Resolve(c.Request.Context()); err != nil {
			return 0, err
		}
		if user := access.User(); user != nil {
			return user.ID, nil
		}
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "user id %q requires a user credential", param)
	}

	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid user id %q", param)
	}
	return id, nil
}

// CreateUserHandler registers a new user.
// POST /v1/users - Requires users:create.
func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Create(c.Request.Context(), access, req.ToCreateUserInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// GetUserHandler retrieves a user by ID.
// GET /v1/users/:user_id - Requires users:get; "me" resolves to the caller.
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	userID, err := h.userID(c, access)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), access, userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// ListUsersHandler lists users with pagination.
// GET /v1/users?offset=0&limit=50 - Requires users:list.
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.List(c.Request.Context(), access, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users))
}

// UpdateUserHandler modifies a user's profile fields.
// PUT /v1/users/:user_id - Requires users:update.
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	userID, err := h.userID(c, access)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), access, userID, req.ToUpdateUserInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// DeleteUserHandler soft-deletes a user.
// DELETE /v1/users/:user_id - Requires users:delete.
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	userID, err := h.userID(c, access)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), access, userID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetPasswordHandler replaces a user's password.
// PUT /v1/users/:user_id/auth - Requires users:password.
func (h *UserHandler) SetPasswordHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	userID, err := h.userID(c, access)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &usecase.SetPasswordInput{
		Current: req.Current,
		Secret:  req.Secret,
	}
	if err := h.userUseCase.SetPassword(c.Request.Context(), access, userID, input); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetPermissionsHandler replaces a user's capability profile.
// PUT /v1/users/:user_id/permissions - Requires users:permissions.
func (h *UserHandler) SetPermissionsHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	userID, err := h.userID(c, access)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var req dto.SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.userUseCase.SetPermissions(c.Request.Context(), access, userID, req.ToProfile()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SignInAsHandler issues a token for another user.
// POST /v1/users/:user_id/login - Requires users:loginas.
func (h *UserHandler) SignInAsHandler(c *gin.Context) {
	access, ok := accessHTTP.RequireAccess(c, h.logger)
	if !ok {
		return
	}

	userID, err := h.userID(c, access)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	token, user, err := h.tokenUseCase.SignInAs(c.Request.Context(), access, userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SignInAsResponse{
		Token:   token.Token,
		Expires: token.Expires,
		User:    dto.MapUserToResponse(user),
	})
}
