package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// Context is one caller's resolved access state. It is created per request
// (or per trusted internal caller), resolves its credential lazily on first
// use, and memoizes both the identity resolution and the per-resource object
// enumerations for its lifetime.
//
// A Context is safe for concurrent use; resolution runs at most once even
// under concurrent checks, and a failed resolution is terminal: every later
// check returns the same error.
type Context struct {
	engine      *Engine
	tokenString string
	internal    bool

	initOnce sync.Once
	initErr  error
	claims   *tokenDomain.Claims
	user     *userDomain.User
	scope    []string
	roles    []string

	objectMu sync.Mutex
	objects  map[accessDomain.ResourceType]*accessDomain.ObjectScope
}

// IsInternal reports whether this context belongs to a trusted in-process
// caller that bypasses every check.
func (c *Context) IsInternal() bool {
	return c.internal
}

// User returns the resolved identity, or nil before resolution and for
// internal contexts.
func (c *Context) User() *userDomain.User {
	return c.user
}

// Claims returns the verified credential claims, or nil before resolution and
// for internal contexts.
func (c *Context) Claims() *tokenDomain.Claims {
	return c.claims
}

// Resolve forces credential resolution now instead of on the first check.
// It is idempotent; callers that need the resolved identity or claims up
// front use it before User or Claims.
func (c *Context) Resolve(ctx context.Context) error {
	if c.internal {
		return nil
	}
	return c.load(ctx)
}

// Can checks whether this caller may perform the operation named by key on
// the given data. The data is the object under evaluation: an object ID, a
// map carrying "id" or "owner_user_id", or nil for unbound operations.
//
// It returns nil on allow, an AuthError when the credential itself cannot be
// resolved, and a PermissionError on denial. A missing credential and unknown
// permission keys both deny.
func (c *Context) Can(ctx context.Context, key accessDomain.PermissionKey, data any) error {
	if c.internal {
		return nil
	}

	if err := c.load(ctx); err != nil {
		c.engine.metrics.RecordOperation(ctx, "access", key.String(), "denied")
		return err
	}

	rule, ok := accessDomain.LookupRule(key)
	if !ok {
		c.engine.logger.Warn("authorization check for unknown permission key",
			slog.String("permission", key.String()),
			slog.Int64("user_id", c.UserID()),
		)
		c.engine.metrics.RecordOperation(ctx, "access", key.String(), "denied")
		return apperrors.NewPermissionError(key.String(), data, apperrors.New("unknown permission key"))
	}

	// The enumeration is only consulted when the decision can reach the
	// capability branch with an id-bound object.
	var objectScope *accessDomain.ObjectScope
	if rule.UserBranch && rule.Binding == accessDomain.BindResourceID && !c.hasAnyRole(rule.Roles) {
		scope, err := c.LoadObjects(ctx, key.Resource())
		if err != nil {
			c.engine.metrics.RecordOperation(ctx, "access", key.String(), "denied")
			return apperrors.NewPermissionError(key.String(), data, err)
		}
		objectScope = scope
	}

	record := accessDomain.NewDecisionRecord(key, data, c.scope, c.roles, c.profile())
	if err := accessDomain.Evaluate(record, key, rule, objectScope, c.UserID()); err != nil {
		c.engine.logger.Debug("authorization denied",
			slog.String("permission", key.String()),
			slog.Int64("user_id", c.UserID()),
			slog.String("reason", err.Error()),
		)
		c.engine.metrics.RecordOperation(ctx, "access", key.String(), "denied")
		return apperrors.NewPermissionError(key.String(), data, err)
	}

	c.engine.metrics.RecordOperation(ctx, "access", key.String(), "allowed")
	return nil
}

// LoadObjects returns the allowed-ID enumeration for the given resource type,
// resolving and memoizing it on first use. A nil enumeration means the caller
// is unrestricted for that resource type.
func (c *Context) LoadObjects(
	ctx context.Context,
	resource accessDomain.ResourceType,
) (*accessDomain.ObjectScope, error) {
	if c.internal {
		return nil, nil
	}

	if err := c.load(ctx); err != nil {
		return nil, err
	}

	c.objectMu.Lock()
	defer c.objectMu.Unlock()

	if scope, ok := c.objects[resource]; ok {
		return scope, nil
	}
	return c.resolveAndStore(ctx, resource)
}

// ReloadObjects resolves the enumeration for the given resource type again,
// replacing whatever was memoized. Callers use it after mutating rows whose
// IDs feed a later check on the same context.
func (c *Context) ReloadObjects(
	ctx context.Context,
	resource accessDomain.ResourceType,
) (*accessDomain.ObjectScope, error) {
	if c.internal {
		return nil, nil
	}

	if err := c.load(ctx); err != nil {
		return nil, err
	}

	c.objectMu.Lock()
	defer c.objectMu.Unlock()

	return c.resolveAndStore(ctx, resource)
}

// load resolves the credential to an identity exactly once. The outcome,
// success or failure, is cached for the lifetime of the context.
func (c *Context) load(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.resolve(ctx)
	})
	return c.initErr
}

func (c *Context) resolve(ctx context.Context) error {
	// No credential at all is a denial, not an authentication failure: the
	// caller never presented anything to authenticate.
	if c.tokenString == "" {
		return apperrors.NewPermissionError("", nil, apperrors.New("no credential supplied"))
	}

	claims, err := c.engine.signer.Parse(c.tokenString)
	if err != nil {
		return err
	}
	c.claims = claims

	userID := claims.UserID(0)
	if userID <= 0 {
		if claims.HasScope(tokenDomain.UserScope) {
			return apperrors.NewAuthError("user token supplied without a user id", nil)
		}
		// A credential without an identity resolves scope-only. Rules that
		// require roles or capabilities deny against the empty role set.
		c.scope = slices.Clone(claims.Scope)
		c.objects = make(map[accessDomain.ResourceType]*accessDomain.ObjectScope)
		return nil
	}

	user, err := c.engine.identities.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return apperrors.NewAuthError("user cannot be loaded for token", err)
		}
		return apperrors.Wrap(err, "failed to resolve token identity")
	}
	c.user = user

	c.roles = slices.Clone(user.Roles)
	if !slices.Contains(c.roles, tokenDomain.UserScope) {
		c.roles = append(c.roles, tokenDomain.UserScope)
	}

	c.scope = claims.Scope
	if len(c.scope) == 0 {
		c.scope = []string{tokenDomain.UserScope}
	}
	for _, name := range c.scope {
		if !slices.Contains(c.roles, name) {
			return apperrors.NewAuthError("invalid token scope for user", nil)
		}
	}

	c.objects = make(map[accessDomain.ResourceType]*accessDomain.ObjectScope)
	return nil
}

// resolveAndStore must be called with objectMu held.
func (c *Context) resolveAndStore(
	ctx context.Context,
	resource accessDomain.ResourceType,
) (*accessDomain.ObjectScope, error) {
	scope, err := c.resolveObjects(ctx, resource)
	if err != nil {
		return nil, err
	}
	c.objects[resource] = scope
	return scope, nil
}

func (c *Context) resolveObjects(
	ctx context.Context,
	resource accessDomain.ResourceType,
) (*accessDomain.ObjectScope, error) {
	// A credential without an identity owns nothing; Evaluate denies its
	// id-bound checks before any enumeration matters.
	if c.user == nil {
		return nil, nil
	}

	switch {
	case resource == accessDomain.ResourceUsers:
		// Callers may always address their own user row.
		return &accessDomain.ObjectScope{IDs: []int64{c.user.ID}}, nil

	case slices.Contains(accessDomain.OwnedResourceTypes, resource):
		ownedOnly := c.visibility() == accessDomain.VisibilityOwn
		ids, err := c.engine.ownership.ListResourceIDs(ctx, resource, c.user.ID, ownedOnly)
		if err != nil {
			return nil, apperrors.Wrapf(err, "failed to enumerate %s", resource)
		}
		if len(ids) == 0 {
			// The enumeration must stay non-empty so that an empty result
			// keeps rejecting every real ID.
			return &accessDomain.ObjectScope{IDs: []int64{0}}, nil
		}
		return &accessDomain.ObjectScope{IDs: ids}, nil

	default:
		return nil, nil
	}
}

// SeesAllObjects reports whether the caller is free of owner scoping when
// listing owned resources: internal callers, admins, and identities with
// "all" visibility. Callers must have resolved the context first, usually
// through Can.
func (c *Context) SeesAllObjects() bool {
	if c.internal {
		return true
	}
	if c.hasAnyRole([]string{accessDomain.AdminRole}) {
		return true
	}
	return c.visibility() == accessDomain.VisibilityAll
}

// UserID returns the resolved identity's ID, or zero when the credential did
// not resolve to one.
func (c *Context) UserID() int64 {
	if c.user == nil {
		return 0
	}
	return c.user.ID
}

func (c *Context) profile() *accessDomain.Profile {
	if c.user == nil {
		return nil
	}
	return c.user.Permissions
}

func (c *Context) visibility() accessDomain.Visibility {
	if c.user != nil && c.user.Permissions != nil && c.user.Permissions.Visibility.Valid() {
		return c.user.Permissions.Visibility
	}
	return accessDomain.VisibilityOwn
}

func (c *Context) hasAnyRole(roles []string) bool {
	for _, role := range roles {
		if slices.Contains(c.roles, role) {
			return true
		}
	}
	return false
}
