package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/metrics"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	tokenMocks "github.com/allisson/proxyadmin/internal/token/http/mocks"
	"github.com/allisson/proxyadmin/internal/user/domain"
	httpMocks "github.com/allisson/proxyadmin/internal/user/http/mocks"
	"github.com/allisson/proxyadmin/internal/user/usecase"
)

type staticSigner struct {
	claims *tokenDomain.Claims
}

func (s *staticSigner) Sign(claims *tokenDomain.Claims, ttl time.Duration) (string, *tokenDomain.Claims, error) {
	return "signed", claims, nil
}

func (s *staticSigner) Parse(tokenString string) (*tokenDomain.Claims, error) {
	if s.claims == nil {
		return nil, apperrors.NewAuthError("invalid token", nil)
	}
	return s.claims, nil
}

type staticIdentityRepo struct {
	user *domain.User
}

func (r *staticIdentityRepo) GetActive(ctx context.Context, userID int64) (*domain.User, error) {
	if r.user == nil || r.user.ID != userID {
		return nil, domain.ErrUserNotFound
	}
	return r.user, nil
}

type staticOwnershipRepo struct{}

func (r *staticOwnershipRepo) ListResourceIDs(
	ctx context.Context,
	resource accessDomain.ResourceType,
	ownerID int64,
	ownedOnly bool,
) ([]int64, error) {
	return nil, nil
}

// setupUserTestHandler creates a test user handler with mocked use cases.
func setupUserTestHandler(t *testing.T) (*UserHandler, *httpMocks.MockUserUseCase, *tokenMocks.MockTokenUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUserUseCase := &httpMocks.MockUserUseCase{}
	mockTokenUseCase := &tokenMocks.MockTokenUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewUserHandler(mockUserUseCase, mockTokenUseCase, logger)

	return handler, mockUserUseCase, mockTokenUseCase
}

// resolvableAccess returns an access context whose credential resolves to the
// given user, for exercising the "me" path parameter.
func resolvableAccess(t *testing.T, user *domain.User) *accessUseCase.Context {
	t.Helper()

	claims := &tokenDomain.Claims{
		Attributes: tokenDomain.Attributes{ID: user.ID},
		Scope:      []string{tokenDomain.UserScope},
	}
	engine := accessUseCase.NewEngine(
		&staticSigner{claims: claims},
		&staticIdentityRepo{user: user},
		&staticOwnershipRepo{},
		metrics.NewNoOpBusinessMetrics(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return engine.NewContext("some-token")
}

// performUser runs a handler with the given access context, path parameter and
// optional JSON body.
func performUser(
	handler gin.HandlerFunc,
	access *accessUseCase.Context,
	method, target, userIDParam string,
	body any,
) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if access != nil {
		c.Request = c.Request.WithContext(accessHTTP.WithAccess(c.Request.Context(), access))
	}
	if userIDParam != "" {
		c.Params = gin.Params{{Key: "user_id", Value: userIDParam}}
	}
	handler(c)
	c.Writer.WriteHeaderNow()
	return w
}

func testUser(id int64) *domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.User{
		ID:        id,
		Name:      "Jane Doe",
		Nickname:  "jane",
		Email:     "jane@example.com",
		Roles:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserHandler_CreateUserHandler(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("Create", mock.Anything, access, &domain.CreateUserInput{
			Name:     "Jane Doe",
			Nickname: "jane",
			Email:    "jane@example.com",
			Password: "changeme123",
		}).Return(testUser(7), nil)

		w := performUser(handler.CreateUserHandler, access, http.MethodPost, "/v1/users", "", map[string]any{
			"name":     "Jane Doe",
			"nickname": "jane",
			"email":    "jane@example.com",
			"password": "changeme123",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":7`)
		assert.NotContains(t, w.Body.String(), "changeme123")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)

		w := performUser(handler.CreateUserHandler, &accessUseCase.Context{}, http.MethodPost, "/v1/users", "", map[string]any{
			"name": "Jane Doe",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("denied by access check", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("Create", mock.Anything, access, mock.Anything).
			Return(nil, apperrors.NewPermissionError("users:create", nil, apperrors.ErrForbidden))

		w := performUser(handler.CreateUserHandler, access, http.MethodPost, "/v1/users", "", map[string]any{
			"name":     "Jane Doe",
			"email":    "jane@example.com",
			"password": "changeme123",
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "permission denied")
	})

	t.Run("missing access context", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)

		w := performUser(handler.CreateUserHandler, nil, http.MethodPost, "/v1/users", "", map[string]any{
			"name":     "Jane Doe",
			"email":    "jane@example.com",
			"password": "changeme123",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})
}

func TestUserHandler_GetUserHandler(t *testing.T) {
	t.Run("get by id", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("Get", mock.Anything, access, int64(7)).Return(testUser(7), nil)

		w := performUser(handler.GetUserHandler, access, http.MethodGet, "/v1/users/7", "7", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "jane@example.com")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("me resolves to the caller", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		user := testUser(7)
		access := resolvableAccess(t, user)

		mockUseCase.On("Get", mock.Anything, access, int64(7)).Return(user, nil)

		w := performUser(handler.GetUserHandler, access, http.MethodGet, "/v1/users/me", "me", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":7`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("me with a bad credential", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		engine := accessUseCase.NewEngine(
			&staticSigner{},
			&staticIdentityRepo{},
			&staticOwnershipRepo{},
			metrics.NewNoOpBusinessMetrics(),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)
		access := engine.NewContext("bad-token")

		w := performUser(handler.GetUserHandler, access, http.MethodGet, "/v1/users/me", "me", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Get")
	})

	t.Run("invalid user id", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)

		w := performUser(handler.GetUserHandler, &accessUseCase.Context{}, http.MethodGet, "/v1/users/abc", "abc", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Get")
	})

	t.Run("not found", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("Get", mock.Anything, access, int64(99)).Return(nil, domain.ErrUserNotFound)

		w := performUser(handler.GetUserHandler, access, http.MethodGet, "/v1/users/99", "99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_ListUsersHandler(t *testing.T) {
	t.Run("list with pagination", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("List", mock.Anything, access, 10, 20).
			Return([]*domain.User{testUser(7), testUser(8)}, nil)

		w := performUser(handler.ListUsersHandler, access, http.MethodGet, "/v1/users?offset=10&limit=20", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":7`)
		assert.Contains(t, w.Body.String(), `"id":8`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("empty list serializes as empty array", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("List", mock.Anything, access, 0, 50).
			Return([]*domain.User{}, nil)

		w := performUser(handler.ListUsersHandler, access, http.MethodGet, "/v1/users", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("invalid pagination", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)

		w := performUser(handler.ListUsersHandler, &accessUseCase.Context{}, http.MethodGet, "/v1/users?offset=-1", "", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "List")
	})
}

func TestUserHandler_UpdateUserHandler(t *testing.T) {
	t.Run("valid update", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		updated := testUser(7)
		updated.Name = "Jane Updated"
		mockUseCase.On("Update", mock.Anything, access, int64(7), mock.Anything).Return(updated, nil)

		w := performUser(handler.UpdateUserHandler, access, http.MethodPut, "/v1/users/7", "7", map[string]any{
			"name":  "Jane Updated",
			"email": "jane@example.com",
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Jane Updated")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/v1/users/7", bytes.NewReader([]byte("{")))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Request = c.Request.WithContext(accessHTTP.WithAccess(c.Request.Context(), &accessUseCase.Context{}))
		c.Params = gin.Params{{Key: "user_id", Value: "7"}}
		handler.UpdateUserHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Update")
	})
}

func TestUserHandler_DeleteUserHandler(t *testing.T) {
	t.Run("successful delete", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("Delete", mock.Anything, access, int64(7)).Return(nil)

		w := performUser(handler.DeleteUserHandler, access, http.MethodDelete, "/v1/users/7", "7", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("self delete rejected", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("Delete", mock.Anything, access, int64(7)).
			Return(apperrors.Wrap(apperrors.ErrInvalidInput, "you cannot delete yourself"))

		w := performUser(handler.DeleteUserHandler, access, http.MethodDelete, "/v1/users/7", "7", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "you cannot delete yourself")
	})
}

func TestUserHandler_SetPasswordHandler(t *testing.T) {
	t.Run("valid change", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("SetPassword", mock.Anything, access, int64(7), &usecase.SetPasswordInput{
			Current: "oldpassword1",
			Secret:  "newpassword1",
		}).Return(nil)

		w := performUser(handler.SetPasswordHandler, access, http.MethodPut, "/v1/users/7/auth", "7", map[string]any{
			"current": "oldpassword1",
			"secret":  "newpassword1",
		})

		require.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockUseCase.On("SetPassword", mock.Anything, access, int64(7), mock.Anything).
			Return(apperrors.NewAuthError("current password is incorrect", nil))

		w := performUser(handler.SetPasswordHandler, access, http.MethodPut, "/v1/users/7/auth", "7", map[string]any{
			"current": "wrong",
			"secret":  "newpassword1",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "current password is incorrect")
	})

	t.Run("missing secret fails validation", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)

		w := performUser(handler.SetPasswordHandler, &accessUseCase.Context{}, http.MethodPut, "/v1/users/7/auth", "7", map[string]any{
			"current": "oldpassword1",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "SetPassword")
	})
}

func TestUserHandler_SetPermissionsHandler(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		expected := &accessDomain.Profile{
			Visibility: accessDomain.VisibilityOwn,
			Capabilities: map[accessDomain.ResourceType]accessDomain.CapabilityLevel{
				accessDomain.ResourceProxyHosts:       accessDomain.CapabilityManage,
				accessDomain.ResourceRedirectionHosts: accessDomain.CapabilityNone,
				accessDomain.ResourceDeadHosts:        accessDomain.CapabilityNone,
				accessDomain.ResourceStreams:          accessDomain.CapabilityView,
				accessDomain.ResourceAccessLists:      accessDomain.CapabilityNone,
				accessDomain.ResourceCertificates:     accessDomain.CapabilityNone,
			},
		}
		mockUseCase.On("SetPermissions", mock.Anything, access, int64(7), expected).Return(nil)

		w := performUser(handler.SetPermissionsHandler, access, http.MethodPut, "/v1/users/7/permissions", "7", map[string]any{
			"visibility":  "own",
			"proxy_hosts": "manage",
			"streams":     "view",
		})

		require.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid visibility", func(t *testing.T) {
		handler, mockUseCase, _ := setupUserTestHandler(t)

		w := performUser(handler.SetPermissionsHandler, &accessUseCase.Context{}, http.MethodPut, "/v1/users/7/permissions", "7", map[string]any{
			"visibility": "everything",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "SetPermissions")
	})
}

func TestUserHandler_SignInAsHandler(t *testing.T) {
	t.Run("issues a token for the target user", func(t *testing.T) {
		handler, _, mockTokenUseCase := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		expires := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
		mockTokenUseCase.On("SignInAs", mock.Anything, access, int64(7)).
			Return(&tokenDomain.TokenOutput{Token: "impersonation-token", Expires: expires}, testUser(7), nil)

		w := performUser(handler.SignInAsHandler, access, http.MethodPost, "/v1/users/7/login", "7", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "impersonation-token")
		assert.Contains(t, w.Body.String(), "jane@example.com")
		mockTokenUseCase.AssertExpectations(t)
	})

	t.Run("forbidden for non-admin callers", func(t *testing.T) {
		handler, _, mockTokenUseCase := setupUserTestHandler(t)
		access := &accessUseCase.Context{}

		mockTokenUseCase.On("SignInAs", mock.Anything, access, int64(7)).
			Return(nil, nil, apperrors.NewPermissionError("users:loginas", int64(7), apperrors.ErrForbidden))

		w := performUser(handler.SignInAsHandler, access, http.MethodPost, "/v1/users/7/login", "7", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "permission denied")
	})
}
