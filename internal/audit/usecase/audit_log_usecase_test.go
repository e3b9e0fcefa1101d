package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	"github.com/allisson/proxyadmin/internal/audit/domain"
	apperrors "github.com/allisson/proxyadmin/internal/errors"
	"github.com/allisson/proxyadmin/internal/metrics"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"
)

type fakeAuditLogRepo struct {
	entries []*domain.Entry
	deleted int64
}

func (f *fakeAuditLogRepo) Create(ctx context.Context, entry *domain.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditLogRepo) List(ctx context.Context, offset, limit int) ([]*domain.Entry, error) {
	return f.entries, nil
}

func (f *fakeAuditLogRepo) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for _, entry := range f.entries {
		if entry.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAuditLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	count, _ := f.CountOlderThan(ctx, cutoff)
	f.deleted = count
	return count, nil
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

type fakeIdentityRepo struct {
	users map[int64]*userDomain.User
}

func (f *fakeIdentityRepo) GetActive(ctx context.Context, userID int64) (*userDomain.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, userDomain.ErrUserNotFound
}

type fakeOwnershipRepo struct{}

func (f *fakeOwnershipRepo) ListResourceIDs(
	ctx context.Context,
	resource accessDomain.ResourceType,
	ownerID int64,
	ownedOnly bool,
) ([]int64, error) {
	return nil, nil
}

func newTestEngine(t *testing.T) *accessUseCase.Engine {
	t.Helper()

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
	identities := &fakeIdentityRepo{users: map[int64]*userDomain.User{
		1: {ID: 1, Name: "Admin", Email: "admin@example.com", Roles: []string{accessDomain.AdminRole}},
		7: {ID: 7, Name: "Jane Doe", Email: "jane@example.com"},
	}}
	return accessUseCase.NewEngine(
		signer,
		identities,
		&fakeOwnershipRepo{},
		metrics.NewNoOpBusinessMetrics(),
		slog.Default(),
	)
}

func TestAuditLogUseCase_Record(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	t.Run("records the acting user", func(t *testing.T) {
		repo := &fakeAuditLogRepo{}
		useCase := NewAuditLogUseCase(repo)

		access := engine.NewContext("jane-token")
		require.NoError(t, access.Resolve(ctx))

		err := useCase.Record(ctx, access, "proxy_host", 42, domain.ActionCreated, map[string]any{
			"domain_names": []string{"example.com"},
		})
		require.NoError(t, err)

		require.Len(t, repo.entries, 1)
		entry := repo.entries[0]
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, int64(7), entry.UserID)
		assert.Equal(t, "proxy_host", entry.ObjectType)
		assert.Equal(t, int64(42), entry.ObjectID)
		assert.Equal(t, domain.ActionCreated, entry.Action)
		assert.WithinDuration(t, time.Now().UTC(), entry.CreatedAt, time.Minute)
	})

	t.Run("internal actor records with a zero user id", func(t *testing.T) {
		repo := &fakeAuditLogRepo{}
		useCase := NewAuditLogUseCase(repo)

		err := useCase.Record(ctx, engine.NewInternalContext(), "user", 7, domain.ActionDeleted, nil)
		require.NoError(t, err)

		require.Len(t, repo.entries, 1)
		assert.Zero(t, repo.entries[0].UserID)
	})
}

func TestAuditLogUseCase_List(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	repo := &fakeAuditLogRepo{entries: []*domain.Entry{
		{ID: uuid.Must(uuid.NewV7()), UserID: 7, ObjectType: "stream", ObjectID: 3, Action: domain.ActionUpdated},
	}}
	useCase := NewAuditLogUseCase(repo)

	t.Run("admin lists entries", func(t *testing.T) {
		entries, err := useCase.List(ctx, engine.NewContext("admin-token"), 0, 50)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("plain user is denied", func(t *testing.T) {
		_, err := useCase.List(ctx, engine.NewContext("jane-token"), 0, 50)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestAuditLogUseCase_Clean(t *testing.T) {
	ctx := context.Background()

	old := &domain.Entry{ID: uuid.Must(uuid.NewV7()), CreatedAt: time.Now().UTC().AddDate(0, 0, -120)}
	recent := &domain.Entry{ID: uuid.Must(uuid.NewV7()), CreatedAt: time.Now().UTC()}

	t.Run("dry run only counts", func(t *testing.T) {
		repo := &fakeAuditLogRepo{entries: []*domain.Entry{old, recent}}
		useCase := NewAuditLogUseCase(repo)

		count, err := useCase.Clean(ctx, 90, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Zero(t, repo.deleted)
	})

	t.Run("deletes old entries", func(t *testing.T) {
		repo := &fakeAuditLogRepo{entries: []*domain.Entry{old, recent}}
		useCase := NewAuditLogUseCase(repo)

		count, err := useCase.Clean(ctx, 90, false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, int64(1), repo.deleted)
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		useCase := NewAuditLogUseCase(&fakeAuditLogRepo{})

		_, err := useCase.Clean(ctx, 0, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
