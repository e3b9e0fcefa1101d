package usecase

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/metrics"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"
)

type fakeSigner struct {
	claims *tokenDomain.Claims
	err    error

	mu         sync.Mutex
	parseCalls int
}

func (f *fakeSigner) Sign(claims *tokenDomain.Claims, ttl time.Duration) (string, *tokenDomain.Claims, error) {
	return "signed", claims, nil
}

func (f *fakeSigner) Parse(tokenString string) (*tokenDomain.Claims, error) {
	f.mu.Lock()
	f.parseCalls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

type fakeIdentityRepo struct {
	user *userDomain.User
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakeIdentityRepo) GetActive(ctx context.Context, userID int64) (*userDomain.User, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeOwnershipRepo struct {
	ids map[accessDomain.ResourceType][]int64
	err error

	mu        sync.Mutex
	calls     map[accessDomain.ResourceType]int
	ownedOnly map[accessDomain.ResourceType]bool
}

func (f *fakeOwnershipRepo) ListResourceIDs(
	ctx context.Context,
	resource accessDomain.ResourceType,
	ownerID int64,
	ownedOnly bool,
) ([]int64, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[accessDomain.ResourceType]int)
	}
	if f.ownedOnly == nil {
		f.ownedOnly = make(map[accessDomain.ResourceType]bool)
	}
	f.calls[resource]++
	f.ownedOnly[resource] = ownedOnly
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.ids[resource], nil
}

func userClaims(id int64, scope ...string) *tokenDomain.Claims {
	if scope == nil {
		scope = []string{tokenDomain.UserScope}
	}
	return &tokenDomain.Claims{
		Attributes: tokenDomain.Attributes{ID: id},
		Scope:      scope,
	}
}

func plainUser(id int64, roles ...string) *userDomain.User {
	return &userDomain.User{
		ID:    id,
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Roles: roles,
		Permissions: &accessDomain.Profile{
			Visibility: accessDomain.VisibilityOwn,
			Capabilities: map[accessDomain.ResourceType]accessDomain.CapabilityLevel{
				accessDomain.ResourceProxyHosts: accessDomain.CapabilityManage,
				accessDomain.ResourceStreams:    accessDomain.CapabilityView,
			},
		},
	}
}

func newTestEngine(signer *fakeSigner, identities *fakeIdentityRepo, ownership *fakeOwnershipRepo) *Engine {
	return NewEngine(signer, identities, ownership, metrics.NewNoOpBusinessMetrics(), slog.Default())
}

func TestContext_InternalBypass(t *testing.T) {
	ctx := context.Background()
	identities := &fakeIdentityRepo{}
	ownership := &fakeOwnershipRepo{}
	engine := newTestEngine(&fakeSigner{}, identities, ownership)

	access := engine.NewInternalContext()

	assert.NoError(t, access.Can(ctx, "proxy_hosts:delete", map[string]any{"id": int64(1)}))
	assert.NoError(t, access.Can(ctx, "users:create", nil))
	assert.NoError(t, access.Can(ctx, "not_a_resource:explode", nil))

	scope, err := access.LoadObjects(ctx, accessDomain.ResourceProxyHosts)
	require.NoError(t, err)
	assert.Nil(t, scope)

	assert.Equal(t, 0, identities.calls)
	assert.Empty(t, ownership.calls)
}

func TestContext_ResolvesIdentityOnce(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	access := engine.NewContext("token")

	for range 5 {
		_ = access.Can(ctx, "reports:hosts", nil)
	}

	assert.Equal(t, 1, signer.parseCalls)
	assert.Equal(t, 1, identities.calls)
}

func TestContext_ResolvesIdentityOnceConcurrently(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	access := engine.NewContext("token")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = access.Can(ctx, "reports:hosts", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, signer.parseCalls)
	assert.Equal(t, 1, identities.calls)
}

func TestContext_InvalidTokenIsTerminal(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{err: apperrors.NewAuthError("invalid token", nil)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	access := engine.NewContext("garbage")

	first := access.Can(ctx, "reports:hosts", nil)
	second := access.Can(ctx, "users:create", nil)

	require.Error(t, first)
	assert.ErrorIs(t, first, apperrors.ErrUnauthorized)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, signer.parseCalls)
	assert.Equal(t, 0, identities.calls)
}

func TestContext_MissingCredentialDenies(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{}
	identities := &fakeIdentityRepo{}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	err := engine.NewContext("").Can(ctx, "proxy_hosts:list", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, "permission denied", err.Error())
	assert.Equal(t, 0, signer.parseCalls)
	assert.Equal(t, 0, identities.calls)
}

func TestContext_UserScopedTokenWithoutUserID(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(0, tokenDomain.UserScope)}
	identities := &fakeIdentityRepo{}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	err := engine.NewContext("token").Can(ctx, "reports:hosts", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "user token supplied without a user id", err.Error())
	assert.Equal(t, 0, identities.calls)
}

func TestContext_ScopeOnlyCredential(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: &tokenDomain.Claims{Scope: []string{"worker"}}}
	identities := &fakeIdentityRepo{}
	ownership := &fakeOwnershipRepo{}
	engine := newTestEngine(signer, identities, ownership)

	access := engine.NewContext("token")

	// A credential without an identity resolves cleanly and never touches
	// the identity store.
	require.NoError(t, access.Resolve(ctx))
	assert.Equal(t, 0, identities.calls)
	assert.Nil(t, access.User())

	// Role- and capability-bound rules deny against the empty role set.
	err := access.Can(ctx, "proxy_hosts:list", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, "permission denied", err.Error())

	denied := access.Can(ctx, "proxy_hosts:get", map[string]any{"id": int64(10)})
	assert.ErrorIs(t, denied, apperrors.ErrForbidden)
	assert.Empty(t, ownership.calls)
}

func TestContext_UserCannotBeLoaded(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{err: userDomain.ErrUserNotFound}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	err := engine.NewContext("token").Can(ctx, "reports:hosts", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "user cannot be loaded for token", err.Error())
}

func TestContext_ScopeMustBeSubsetOfRoles(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7, "admin")}
	identities := &fakeIdentityRepo{user: plainUser(7)} // no admin role
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	err := engine.NewContext("token").Can(ctx, "reports:hosts", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "invalid token scope for user", err.Error())
}

func TestContext_AdminSkipsEnumeration(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(1)}
	identities := &fakeIdentityRepo{user: plainUser(1, accessDomain.AdminRole)}
	ownership := &fakeOwnershipRepo{}
	engine := newTestEngine(signer, identities, ownership)

	access := engine.NewContext("token")

	assert.NoError(t, access.Can(ctx, "proxy_hosts:get", map[string]any{"id": int64(999)}))
	assert.NoError(t, access.Can(ctx, "settings:update", nil))
	assert.NoError(t, access.Can(ctx, "users:delete", map[string]any{"id": int64(4)}))
	assert.Empty(t, ownership.calls)
}

func TestContext_OwnerScopedGet(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	ownership := &fakeOwnershipRepo{
		ids: map[accessDomain.ResourceType][]int64{
			accessDomain.ResourceProxyHosts: {10, 11},
		},
	}
	engine := newTestEngine(signer, identities, ownership)

	access := engine.NewContext("token")

	assert.NoError(t, access.Can(ctx, "proxy_hosts:get", map[string]any{"id": int64(10)}))

	err := access.Can(ctx, "proxy_hosts:get", map[string]any{"id": int64(12)})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, "permission denied", err.Error())

	var permErr *apperrors.PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, "proxy_hosts:get", permErr.Permission)

	assert.True(t, ownership.ownedOnly[accessDomain.ResourceProxyHosts])
}

func TestContext_OwnerCreateChecksOwnerField(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	ownership := &fakeOwnershipRepo{}
	engine := newTestEngine(signer, identities, ownership)

	access := engine.NewContext("token")

	assert.NoError(t, access.Can(ctx, "proxy_hosts:create", map[string]any{"owner_user_id": int64(7)}))

	err := access.Can(ctx, "proxy_hosts:create", map[string]any{"owner_user_id": int64(9)})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Owner binding never needs the enumeration.
	assert.Empty(t, ownership.calls)
}

func TestContext_EnumerationIsMemoized(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	ownership := &fakeOwnershipRepo{
		ids: map[accessDomain.ResourceType][]int64{
			accessDomain.ResourceProxyHosts: {10},
		},
	}
	engine := newTestEngine(signer, identities, ownership)

	access := engine.NewContext("token")

	for range 3 {
		require.NoError(t, access.Can(ctx, "proxy_hosts:get", map[string]any{"id": int64(10)}))
	}
	assert.Equal(t, 1, ownership.calls[accessDomain.ResourceProxyHosts])

	_, err := access.ReloadObjects(ctx, accessDomain.ResourceProxyHosts)
	require.NoError(t, err)
	assert.Equal(t, 2, ownership.calls[accessDomain.ResourceProxyHosts])
}

func TestContext_EmptyEnumerationRejectsEverything(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	ownership := &fakeOwnershipRepo{}
	engine := newTestEngine(signer, identities, ownership)

	access := engine.NewContext("token")

	scope, err := access.LoadObjects(ctx, accessDomain.ResourceProxyHosts)
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, []int64{0}, scope.IDs)

	denied := access.Can(ctx, "proxy_hosts:get", map[string]any{"id": int64(5)})
	assert.ErrorIs(t, denied, apperrors.ErrForbidden)
}

func TestContext_AllVisibilityEnumeratesUnowned(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	user := plainUser(7)
	user.Permissions.Visibility = accessDomain.VisibilityAll
	identities := &fakeIdentityRepo{user: user}
	ownership := &fakeOwnershipRepo{
		ids: map[accessDomain.ResourceType][]int64{
			accessDomain.ResourceProxyHosts: {10, 20, 30},
		},
	}
	engine := newTestEngine(signer, identities, ownership)

	access := engine.NewContext("token")

	require.NoError(t, access.Can(ctx, "proxy_hosts:get", map[string]any{"id": int64(30)}))
	assert.False(t, ownership.ownedOnly[accessDomain.ResourceProxyHosts])
}

func TestContext_UsersScopeIsSelf(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	access := engine.NewContext("token")

	assert.NoError(t, access.Can(ctx, "users:get", map[string]any{"id": int64(7)}))
	assert.ErrorIs(t, access.Can(ctx, "users:get", map[string]any{"id": int64(8)}), apperrors.ErrForbidden)
	assert.NoError(t, access.Can(ctx, "users:password", map[string]any{"id": int64(7)}))
	assert.ErrorIs(t, access.Can(ctx, "users:delete", map[string]any{"id": int64(7)}), apperrors.ErrForbidden)
}

func TestContext_UnknownKeyDenies(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(1)}
	identities := &fakeIdentityRepo{user: plainUser(1, accessDomain.AdminRole)}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	err := engine.NewContext("token").Can(ctx, "proxy_hosts:reboot", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestContext_EnumerationFailureDenies(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: userClaims(7)}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	ownership := &fakeOwnershipRepo{err: apperrors.New("connection refused")}
	engine := newTestEngine(signer, identities, ownership)

	err := engine.NewContext("token").Can(ctx, "proxy_hosts:get", map[string]any{"id": int64(10)})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, "permission denied", err.Error())
}

func TestContext_EmptyScopeDefaultsToUser(t *testing.T) {
	ctx := context.Background()
	signer := &fakeSigner{claims: &tokenDomain.Claims{Attributes: tokenDomain.Attributes{ID: 7}}}
	identities := &fakeIdentityRepo{user: plainUser(7)}
	engine := newTestEngine(signer, identities, &fakeOwnershipRepo{})

	assert.NoError(t, engine.NewContext("token").Can(ctx, "reports:hosts", nil))
}
