package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/host/domain"
	"github.com/allisson/proxyadmin/internal/metrics"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"
)

// fakeHostRepo is an in-memory host store.
type fakeHostRepo struct {
	nextID int64
	hosts  map[int64]*domain.Host
}

func newFakeHostRepo() *fakeHostRepo {
	return &fakeHostRepo{nextID: 100, hosts: make(map[int64]*domain.Host)}
}

func (f *fakeHostRepo) add(host *domain.Host) *domain.Host {
	f.nextID++
	host.ID = f.nextID
	f.hosts[host.ID] = host
	return host
}

func (f *fakeHostRepo) Create(ctx context.Context, host *domain.Host) error {
	host.CreatedAt = time.Now().UTC()
	host.UpdatedAt = host.CreatedAt
	f.add(host)
	return nil
}

func (f *fakeHostRepo) GetByID(
	ctx context.Context,
	hostType domain.Type,
	id int64,
) (*domain.Host, error) {
	host, ok := f.hosts[id]
	if !ok || host.Type != hostType || host.IsDeleted {
		return nil, domain.ErrHostNotFound
	}
	copied := *host
	return &copied, nil
}

func (f *fakeHostRepo) List(
	ctx context.Context,
	hostType domain.Type,
	ownerID int64,
	offset, limit int,
) ([]*domain.Host, error) {
	hosts := make([]*domain.Host, 0)
	for _, host := range f.hosts {
		if host.Type != hostType || host.IsDeleted {
			continue
		}
		if ownerID > 0 && host.OwnerUserID != ownerID {
			continue
		}
		hosts = append(hosts, host)
	}
	return hosts, nil
}

func (f *fakeHostRepo) Update(ctx context.Context, host *domain.Host) error {
	existing, ok := f.hosts[host.ID]
	if !ok || existing.Type != host.Type || existing.IsDeleted {
		return domain.ErrHostNotFound
	}
	host.UpdatedAt = time.Now().UTC()
	f.hosts[host.ID] = host
	return nil
}

func (f *fakeHostRepo) SetEnabled(
	ctx context.Context,
	hostType domain.Type,
	id int64,
	enabled bool,
) error {
	host, ok := f.hosts[id]
	if !ok || host.Type != hostType || host.IsDeleted {
		return domain.ErrHostNotFound
	}
	host.Enabled = enabled
	return nil
}

func (f *fakeHostRepo) SoftDelete(ctx context.Context, hostType domain.Type, id int64) error {
	host, ok := f.hosts[id]
	if !ok || host.Type != hostType || host.IsDeleted {
		return domain.ErrHostNotFound
	}
	host.IsDeleted = true
	return nil
}

func (f *fakeHostRepo) Count(
	ctx context.Context,
	hostType domain.Type,
	ownerID int64,
) (int64, error) {
	var count int64
	for _, host := range f.hosts {
		if host.Type != hostType || host.IsDeleted {
			continue
		}
		if ownerID > 0 && host.OwnerUserID != ownerID {
			continue
		}
		count++
	}
	return count, nil
}

type fakeStreamCounter struct {
	counts map[int64]int64
	err    error
}

func (f *fakeStreamCounter) Count(ctx context.Context, ownerID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[ownerID], nil
}

type recordedEntry struct {
	objectType string
	objectID   int64
	action     string
	meta       map[string]any
}

type fakeRecorder struct {
	entries []recordedEntry
	err     error
}

func (f *fakeRecorder) Record(
	ctx context.Context,
	access *accessUseCase.Context,
	objectType string,
	objectID int64,
	action string,
	meta map[string]any,
) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, recordedEntry{objectType, objectID, action, meta})
	return nil
}

type fakeIdentityRepo struct {
	users map[int64]*userDomain.User
}

func (f *fakeIdentityRepo) GetActive(ctx context.Context, userID int64) (*userDomain.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, userDomain.ErrUserNotFound
}

type fakeSigner struct {
	claimsByToken map[string]*tokenDomain.Claims
}

func (f *fakeSigner) Sign(
	claims *tokenDomain.Claims,
	ttl time.Duration,
) (string, *tokenDomain.Claims, error) {
	return "signed-token", claims, nil
}

func (f *fakeSigner) Parse(tokenString string) (*tokenDomain.Claims, error) {
	if claims, ok := f.claimsByToken[tokenString]; ok {
		return claims, nil
	}
	return nil, apperrors.NewAuthError("invalid token", nil)
}

// fakeOwnershipRepo enumerates owned IDs from the host repo so scoped checks
// see mutations immediately.
type fakeOwnershipRepo struct {
	hostRepo *fakeHostRepo
}

func (f *fakeOwnershipRepo) ListResourceIDs(
	ctx context.Context,
	resource accessDomain.ResourceType,
	ownerID int64,
	ownedOnly bool,
) ([]int64, error) {
	var hostType domain.Type
	switch resource {
	case accessDomain.ResourceProxyHosts:
		hostType = domain.TypeProxy
	case accessDomain.ResourceRedirectionHosts:
		hostType = domain.TypeRedirection
	case accessDomain.ResourceDeadHosts:
		hostType = domain.TypeDead
	default:
		return nil, nil
	}

	var ids []int64
	for _, host := range f.hostRepo.hosts {
		if host.Type != hostType || host.IsDeleted {
			continue
		}
		if ownedOnly && host.OwnerUserID != ownerID {
			continue
		}
		ids = append(ids, host.ID)
	}
	return ids, nil
}

type hostTestEnv struct {
	useCase  HostUseCase
	hostRepo *fakeHostRepo
	streams  *fakeStreamCounter
	recorder *fakeRecorder
	engine   *accessUseCase.Engine
}

// admin resolves to the admin user (ID 1); jane to a plain user (ID 7) with
// manage on proxy hosts, view on redirection hosts and own visibility.
func (e *hostTestEnv) admin() *accessUseCase.Context { return e.engine.NewContext("admin-token") }
func (e *hostTestEnv) jane() *accessUseCase.Context  { return e.engine.NewContext("jane-token") }

func setupHostUseCase(t *testing.T) *hostTestEnv {
	t.Helper()

	admin := &userDomain.User{
		ID:    1,
		Name:  "Admin",
		Email: "admin@example.com",
		Roles: []string{accessDomain.AdminRole},
	}
	jane := &userDomain.User{
		ID:    7,
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Permissions: &accessDomain.Profile{
			Visibility: accessDomain.VisibilityOwn,
			Capabilities: map[accessDomain.ResourceType]accessDomain.CapabilityLevel{
				accessDomain.ResourceProxyHosts:       accessDomain.CapabilityManage,
				accessDomain.ResourceRedirectionHosts: accessDomain.CapabilityView,
			},
		},
	}

	hostRepo := newFakeHostRepo()
	signer := &fakeSigner{claimsByToken: map[string]*tokenDomain.Claims{
		"admin-token": {
			Attributes: tokenDomain.Attributes{ID: 1},
			Scope:      []string{tokenDomain.UserScope},
		},
		"jane-token": {
			Attributes: tokenDomain.Attributes{ID: 7},
			Scope:      []string{tokenDomain.UserScope},
		},
	}}
	engine := accessUseCase.NewEngine(
		signer,
		&fakeIdentityRepo{users: map[int64]*userDomain.User{1: admin, 7: jane}},
		&fakeOwnershipRepo{hostRepo: hostRepo},
		metrics.NewNoOpBusinessMetrics(),
		slog.Default(),
	)

	streams := &fakeStreamCounter{counts: make(map[int64]int64)}
	recorder := &fakeRecorder{}
	useCase := NewHostUseCase(hostRepo, streams, recorder, slog.Default())

	return &hostTestEnv{
		useCase:  useCase,
		hostRepo: hostRepo,
		streams:  streams,
		recorder: recorder,
		engine:   engine,
	}
}

func proxyInput() *domain.CreateHostInput {
	return &domain.CreateHostInput{
		DomainNames: []string{"app.example.com"},
		ForwardHost: "10.0.0.5",
		ForwardPort: 8080,
	}
}

func TestHostUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("caller owns what it creates", func(t *testing.T) {
		env := setupHostUseCase(t)

		host, err := env.useCase.Create(ctx, env.jane(), domain.TypeProxy, proxyInput())
		require.NoError(t, err)
		assert.Positive(t, host.ID)
		assert.Equal(t, int64(7), host.OwnerUserID)
		assert.Equal(t, domain.TypeProxy, host.Type)
		assert.True(t, host.Enabled)

		require.Len(t, env.recorder.entries, 1)
		entry := env.recorder.entries[0]
		assert.Equal(t, "proxy_host", entry.objectType)
		assert.Equal(t, host.ID, entry.objectID)
		assert.Equal(t, "created", entry.action)
		assert.Equal(t, map[string]any{"domain_names": []string{"app.example.com"}}, entry.meta)
	})

	t.Run("owner id in the input is ignored for api callers", func(t *testing.T) {
		env := setupHostUseCase(t)

		input := proxyInput()
		input.OwnerUserID = 42
		host, err := env.useCase.Create(ctx, env.jane(), domain.TypeProxy, input)
		require.NoError(t, err)
		assert.Equal(t, int64(7), host.OwnerUserID)
	})

	t.Run("internal caller assigns ownership", func(t *testing.T) {
		env := setupHostUseCase(t)

		input := proxyInput()
		input.OwnerUserID = 7
		host, err := env.useCase.Create(ctx, env.engine.NewInternalContext(), domain.TypeProxy, input)
		require.NoError(t, err)
		assert.Equal(t, int64(7), host.OwnerUserID)
	})

	t.Run("internal caller without an owner is rejected", func(t *testing.T) {
		env := setupHostUseCase(t)

		_, err := env.useCase.Create(ctx, env.engine.NewInternalContext(), domain.TypeProxy, proxyInput())
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("missing capability is denied", func(t *testing.T) {
		env := setupHostUseCase(t)

		_, err := env.useCase.Create(ctx, env.jane(), domain.TypeDead, &domain.CreateHostInput{
			DomainNames: []string{"gone.example.com"},
		})
		var permErr *apperrors.PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, "dead_hosts:create", permErr.Permission)
		assert.Empty(t, env.recorder.entries)
	})

	t.Run("view capability cannot create", func(t *testing.T) {
		env := setupHostUseCase(t)

		_, err := env.useCase.Create(ctx, env.jane(), domain.TypeRedirection, &domain.CreateHostInput{
			DomainNames:       []string{"old.example.com"},
			ForwardDomainName: "new.example.com",
			ForwardHTTPCode:   301,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("validation", func(t *testing.T) {
		env := setupHostUseCase(t)

		tests := []struct {
			name     string
			hostType domain.Type
			mutate   func(*domain.CreateHostInput)
		}{
			{
				name:     "missing domain names",
				hostType: domain.TypeProxy,
				mutate:   func(i *domain.CreateHostInput) { i.DomainNames = nil },
			},
			{
				name:     "invalid domain name",
				hostType: domain.TypeProxy,
				mutate:   func(i *domain.CreateHostInput) { i.DomainNames = []string{"not a domain"} },
			},
			{
				name:     "missing forward host",
				hostType: domain.TypeProxy,
				mutate:   func(i *domain.CreateHostInput) { i.ForwardHost = "" },
			},
			{
				name:     "forward port out of range",
				hostType: domain.TypeProxy,
				mutate:   func(i *domain.CreateHostInput) { i.ForwardPort = 70000 },
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				input := proxyInput()
				tt.mutate(input)
				_, err := env.useCase.Create(ctx, env.admin(), tt.hostType, input)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			})
		}
	})

	t.Run("redirection needs a redirect status code", func(t *testing.T) {
		env := setupHostUseCase(t)

		_, err := env.useCase.Create(ctx, env.admin(), domain.TypeRedirection, &domain.CreateHostInput{
			DomainNames:       []string{"old.example.com"},
			ForwardDomainName: "new.example.com",
			ForwardHTTPCode:   200,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("unknown host type", func(t *testing.T) {
		env := setupHostUseCase(t)

		_, err := env.useCase.Create(ctx, env.admin(), domain.Type("ftp"), proxyInput())
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestHostUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("admin reads any host", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})

		host, err := env.useCase.Get(ctx, env.admin(), domain.TypeProxy, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, host.ID)
	})

	t.Run("owner reads its own host", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})

		host, err := env.useCase.Get(ctx, env.jane(), domain.TypeProxy, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, host.ID)
	})

	t.Run("someone else's host is out of scope", func(t *testing.T) {
		env := setupHostUseCase(t)
		theirs := env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 2, Enabled: true})

		_, err := env.useCase.Get(ctx, env.jane(), domain.TypeProxy, theirs.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("not found for admin", func(t *testing.T) {
		env := setupHostUseCase(t)

		_, err := env.useCase.Get(ctx, env.admin(), domain.TypeProxy, 999)
		assert.ErrorIs(t, err, domain.ErrHostNotFound)
	})
}

func TestHostUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees every host of the kind", func(t *testing.T) {
		env := setupHostUseCase(t)
		env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})
		env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 2, Enabled: true})
		env.hostRepo.add(&domain.Host{Type: domain.TypeDead, OwnerUserID: 7, Enabled: true})

		hosts, err := env.useCase.List(ctx, env.admin(), domain.TypeProxy, 0, 50)
		require.NoError(t, err)
		assert.Len(t, hosts, 2)
	})

	t.Run("own visibility scopes the listing", func(t *testing.T) {
		env := setupHostUseCase(t)
		mine := env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})
		env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 2, Enabled: true})

		hosts, err := env.useCase.List(ctx, env.jane(), domain.TypeProxy, 0, 50)
		require.NoError(t, err)
		require.Len(t, hosts, 1)
		assert.Equal(t, mine.ID, hosts[0].ID)
	})

	t.Run("no capability denies the listing", func(t *testing.T) {
		env := setupHostUseCase(t)

		_, err := env.useCase.List(ctx, env.jane(), domain.TypeDead, 0, 50)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestHostUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("owner updates its host", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{
			Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true,
			DomainNames: []string{"app.example.com"},
			ForwardHost: "10.0.0.5", ForwardPort: 8080,
		})

		host, err := env.useCase.Update(ctx, env.jane(), domain.TypeProxy, seeded.ID, &domain.UpdateHostInput{
			DomainNames: []string{"app.example.com", "api.example.com"},
			ForwardHost: "10.0.0.9",
			ForwardPort: 9090,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"app.example.com", "api.example.com"}, host.DomainNames)
		assert.Equal(t, "10.0.0.9", host.ForwardHost)

		require.Len(t, env.recorder.entries, 1)
		assert.Equal(t, "updated", env.recorder.entries[0].action)
	})

	t.Run("view capability cannot update", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{
			Type: domain.TypeRedirection, OwnerUserID: 7, Enabled: true,
			DomainNames:       []string{"old.example.com"},
			ForwardDomainName: "new.example.com", ForwardHTTPCode: 301,
		})

		_, err := env.useCase.Update(ctx, env.jane(), domain.TypeRedirection, seeded.ID, &domain.UpdateHostInput{
			DomainNames:       []string{"old.example.com"},
			ForwardDomainName: "elsewhere.example.com",
			ForwardHTTPCode:   301,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("invalid input", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{
			Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true,
			DomainNames: []string{"app.example.com"},
			ForwardHost: "10.0.0.5", ForwardPort: 8080,
		})

		_, err := env.useCase.Update(ctx, env.jane(), domain.TypeProxy, seeded.ID, &domain.UpdateHostInput{
			DomainNames: nil,
			ForwardHost: "10.0.0.5",
			ForwardPort: 8080,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Empty(t, env.recorder.entries)
	})
}

func TestHostUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes its host", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})

		require.NoError(t, env.useCase.Delete(ctx, env.jane(), domain.TypeProxy, seeded.ID))
		assert.True(t, env.hostRepo.hosts[seeded.ID].IsDeleted)

		require.Len(t, env.recorder.entries, 1)
		assert.Equal(t, "deleted", env.recorder.entries[0].action)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 1, Enabled: true})

		require.NoError(t, env.useCase.Delete(ctx, env.admin(), domain.TypeProxy, seeded.ID))
		err := env.useCase.Delete(ctx, env.admin(), domain.TypeProxy, seeded.ID)
		assert.ErrorIs(t, err, domain.ErrHostNotFound)
	})
}

func TestHostUseCase_SetEnabled(t *testing.T) {
	ctx := context.Background()

	t.Run("disable records the action", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})

		host, err := env.useCase.SetEnabled(ctx, env.jane(), domain.TypeProxy, seeded.ID, false)
		require.NoError(t, err)
		assert.False(t, host.Enabled)

		require.Len(t, env.recorder.entries, 1)
		assert.Equal(t, "disabled", env.recorder.entries[0].action)
	})

	t.Run("enabling an enabled host is a no-op", func(t *testing.T) {
		env := setupHostUseCase(t)
		seeded := env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})

		host, err := env.useCase.SetEnabled(ctx, env.jane(), domain.TypeProxy, seeded.ID, true)
		require.NoError(t, err)
		assert.True(t, host.Enabled)
		assert.Empty(t, env.recorder.entries)
	})
}

func TestHostUseCase_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("admin counts everything", func(t *testing.T) {
		env := setupHostUseCase(t)
		env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})
		env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 2, Enabled: true})
		env.hostRepo.add(&domain.Host{Type: domain.TypeRedirection, OwnerUserID: 2, Enabled: true})
		env.hostRepo.add(&domain.Host{Type: domain.TypeDead, OwnerUserID: 7, Enabled: true})
		env.streams.counts[0] = 3

		report, err := env.useCase.Report(ctx, env.admin())
		require.NoError(t, err)
		assert.Equal(t, int64(2), report.Proxy)
		assert.Equal(t, int64(1), report.Redirection)
		assert.Equal(t, int64(1), report.Dead)
		assert.Equal(t, int64(3), report.Streams)
	})

	t.Run("own visibility counts own objects", func(t *testing.T) {
		env := setupHostUseCase(t)
		env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 7, Enabled: true})
		env.hostRepo.add(&domain.Host{Type: domain.TypeProxy, OwnerUserID: 2, Enabled: true})
		env.streams.counts[7] = 1

		report, err := env.useCase.Report(ctx, env.jane())
		require.NoError(t, err)
		assert.Equal(t, int64(1), report.Proxy)
		assert.Equal(t, int64(1), report.Streams)
	})

	t.Run("stream counter failure propagates", func(t *testing.T) {
		env := setupHostUseCase(t)
		env.streams.err = apperrors.New("streams unavailable")

		_, err := env.useCase.Report(ctx, env.admin())
		assert.Error(t, err)
	})

	t.Run("invalid credential", func(t *testing.T) {
		env := setupHostUseCase(t)

		_, err := env.useCase.Report(ctx, env.engine.NewContext("bogus"))
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}
