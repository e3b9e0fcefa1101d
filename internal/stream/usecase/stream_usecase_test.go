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
	"github.com/allisson/proxyadmin/internal/metrics"
	"github.com/allisson/proxyadmin/internal/stream/domain"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"
)

// fakeStreamRepo is an in-memory stream store.
type fakeStreamRepo struct {
	nextID  int64
	streams map[int64]*domain.Stream
}

func newFakeStreamRepo() *fakeStreamRepo {
	return &fakeStreamRepo{nextID: 200, streams: make(map[int64]*domain.Stream)}
}

func (f *fakeStreamRepo) add(stream *domain.Stream) *domain.Stream {
	f.nextID++
	stream.ID = f.nextID
	f.streams[stream.ID] = stream
	return stream
}

func (f *fakeStreamRepo) Create(ctx context.Context, stream *domain.Stream) error {
	stream.CreatedAt = time.Now().UTC()
	stream.UpdatedAt = stream.CreatedAt
	f.add(stream)
	return nil
}

func (f *fakeStreamRepo) GetByID(ctx context.Context, id int64) (*domain.Stream, error) {
	stream, ok := f.streams[id]
	if !ok || stream.IsDeleted {
		return nil, domain.ErrStreamNotFound
	}
	copied := *stream
	return &copied, nil
}

func (f *fakeStreamRepo) List(
	ctx context.Context,
	ownerID int64,
	offset, limit int,
) ([]*domain.Stream, error) {
	streams := make([]*domain.Stream, 0)
	for _, stream := range f.streams {
		if stream.IsDeleted {
			continue
		}
		if ownerID > 0 && stream.OwnerUserID != ownerID {
			continue
		}
		streams = append(streams, stream)
	}
	return streams, nil
}

func (f *fakeStreamRepo) Update(ctx context.Context, stream *domain.Stream) error {
	existing, ok := f.streams[stream.ID]
	if !ok || existing.IsDeleted {
		return domain.ErrStreamNotFound
	}
	stream.UpdatedAt = time.Now().UTC()
	f.streams[stream.ID] = stream
	return nil
}

func (f *fakeStreamRepo) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	stream, ok := f.streams[id]
	if !ok || stream.IsDeleted {
		return domain.ErrStreamNotFound
	}
	stream.Enabled = enabled
	return nil
}

func (f *fakeStreamRepo) SoftDelete(ctx context.Context, id int64) error {
	stream, ok := f.streams[id]
	if !ok || stream.IsDeleted {
		return domain.ErrStreamNotFound
	}
	stream.IsDeleted = true
	return nil
}

func (f *fakeStreamRepo) Count(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	for _, stream := range f.streams {
		if stream.IsDeleted {
			continue
		}
		if ownerID > 0 && stream.OwnerUserID != ownerID {
			continue
		}
		count++
	}
	return count, nil
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

// fakeOwnershipRepo enumerates owned IDs from the stream repo so scoped
// checks see mutations immediately.
type fakeOwnershipRepo struct {
	streamRepo *fakeStreamRepo
}

func (f *fakeOwnershipRepo) ListResourceIDs(
	ctx context.Context,
	resource accessDomain.ResourceType,
	ownerID int64,
	ownedOnly bool,
) ([]int64, error) {
	if resource != accessDomain.ResourceStreams {
		return nil, nil
	}

	var ids []int64
	for _, stream := range f.streamRepo.streams {
		if stream.IsDeleted {
			continue
		}
		if ownedOnly && stream.OwnerUserID != ownerID {
			continue
		}
		ids = append(ids, stream.ID)
	}
	return ids, nil
}

type streamTestEnv struct {
	useCase    StreamUseCase
	streamRepo *fakeStreamRepo
	recorder   *fakeRecorder
	engine     *accessUseCase.Engine
}

// admin resolves to the admin user (ID 1); jane to a plain user (ID 7) with
// manage on streams and own visibility; mark (ID 9) can only view streams.
func (e *streamTestEnv) admin() *accessUseCase.Context { return e.engine.NewContext("admin-token") }
func (e *streamTestEnv) jane() *accessUseCase.Context  { return e.engine.NewContext("jane-token") }
func (e *streamTestEnv) mark() *accessUseCase.Context  { return e.engine.NewContext("mark-token") }

func setupStreamUseCase(t *testing.T) *streamTestEnv {
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
				accessDomain.ResourceStreams: accessDomain.CapabilityManage,
			},
		},
	}
	mark := &userDomain.User{
		ID:    9,
		Name:  "Mark Roe",
		Email: "mark@example.com",
		Permissions: &accessDomain.Profile{
			Visibility: accessDomain.VisibilityOwn,
			Capabilities: map[accessDomain.ResourceType]accessDomain.CapabilityLevel{
				accessDomain.ResourceStreams: accessDomain.CapabilityView,
			},
		},
	}

	streamRepo := newFakeStreamRepo()
	signer := &fakeSigner{claimsByToken: map[string]*tokenDomain.Claims{
		"admin-token": {
			Attributes: tokenDomain.Attributes{ID: 1},
			Scope:      []string{tokenDomain.UserScope},
		},
		"jane-token": {
			Attributes: tokenDomain.Attributes{ID: 7},
			Scope:      []string{tokenDomain.UserScope},
		},
		"mark-token": {
			Attributes: tokenDomain.Attributes{ID: 9},
			Scope:      []string{tokenDomain.UserScope},
		},
	}}
	engine := accessUseCase.NewEngine(
		signer,
		&fakeIdentityRepo{users: map[int64]*userDomain.User{1: admin, 7: jane, 9: mark}},
		&fakeOwnershipRepo{streamRepo: streamRepo},
		metrics.NewNoOpBusinessMetrics(),
		slog.Default(),
	)

	recorder := &fakeRecorder{}
	useCase := NewStreamUseCase(streamRepo, recorder, slog.Default())

	return &streamTestEnv{
		useCase:    useCase,
		streamRepo: streamRepo,
		recorder:   recorder,
		engine:     engine,
	}
}

func streamInput() *domain.CreateStreamInput {
	return &domain.CreateStreamInput{
		IncomingPort:   9000,
		ForwardHost:    "10.0.0.5",
		ForwardingPort: 5432,
		TCPForwarding:  true,
	}
}

func TestStreamUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("caller owns what it creates", func(t *testing.T) {
		env := setupStreamUseCase(t)

		stream, err := env.useCase.Create(ctx, env.jane(), streamInput())
		require.NoError(t, err)
		assert.Positive(t, stream.ID)
		assert.Equal(t, int64(7), stream.OwnerUserID)
		assert.True(t, stream.Enabled)

		require.Len(t, env.recorder.entries, 1)
		entry := env.recorder.entries[0]
		assert.Equal(t, "stream", entry.objectType)
		assert.Equal(t, stream.ID, entry.objectID)
		assert.Equal(t, "created", entry.action)
		assert.Equal(t, map[string]any{"incoming_port": 9000}, entry.meta)
	})

	t.Run("owner id in the input is ignored for api callers", func(t *testing.T) {
		env := setupStreamUseCase(t)

		input := streamInput()
		input.OwnerUserID = 42
		stream, err := env.useCase.Create(ctx, env.jane(), input)
		require.NoError(t, err)
		assert.Equal(t, int64(7), stream.OwnerUserID)
	})

	t.Run("internal caller assigns ownership", func(t *testing.T) {
		env := setupStreamUseCase(t)

		input := streamInput()
		input.OwnerUserID = 7
		stream, err := env.useCase.Create(ctx, env.engine.NewInternalContext(), input)
		require.NoError(t, err)
		assert.Equal(t, int64(7), stream.OwnerUserID)
	})

	t.Run("internal caller without an owner is rejected", func(t *testing.T) {
		env := setupStreamUseCase(t)

		_, err := env.useCase.Create(ctx, env.engine.NewInternalContext(), streamInput())
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("view capability cannot create", func(t *testing.T) {
		env := setupStreamUseCase(t)

		_, err := env.useCase.Create(ctx, env.mark(), streamInput())
		var permErr *apperrors.PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, "streams:create", permErr.Permission)
		assert.Empty(t, env.recorder.entries)
	})

	t.Run("validation", func(t *testing.T) {
		env := setupStreamUseCase(t)

		tests := []struct {
			name   string
			mutate func(*domain.CreateStreamInput)
		}{
			{
				name:   "missing incoming port",
				mutate: func(i *domain.CreateStreamInput) { i.IncomingPort = 0 },
			},
			{
				name:   "incoming port out of range",
				mutate: func(i *domain.CreateStreamInput) { i.IncomingPort = 70000 },
			},
			{
				name:   "missing forward host",
				mutate: func(i *domain.CreateStreamInput) { i.ForwardHost = "" },
			},
			{
				name:   "forwarding port out of range",
				mutate: func(i *domain.CreateStreamInput) { i.ForwardingPort = -1 },
			},
			{
				name: "no forwarding protocol",
				mutate: func(i *domain.CreateStreamInput) {
					i.TCPForwarding = false
					i.UDPForwarding = false
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				input := streamInput()
				tt.mutate(input)
				_, err := env.useCase.Create(ctx, env.admin(), input)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			})
		}
	})
}

func TestStreamUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("admin reads any stream", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{OwnerUserID: 7, Enabled: true})

		stream, err := env.useCase.Get(ctx, env.admin(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, stream.ID)
	})

	t.Run("owner reads its own stream", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{OwnerUserID: 7, Enabled: true})

		stream, err := env.useCase.Get(ctx, env.jane(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, stream.ID)
	})

	t.Run("someone else's stream is out of scope", func(t *testing.T) {
		env := setupStreamUseCase(t)
		theirs := env.streamRepo.add(&domain.Stream{OwnerUserID: 2, Enabled: true})

		_, err := env.useCase.Get(ctx, env.jane(), theirs.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("not found for admin", func(t *testing.T) {
		env := setupStreamUseCase(t)

		_, err := env.useCase.Get(ctx, env.admin(), 999)
		assert.ErrorIs(t, err, domain.ErrStreamNotFound)
	})
}

func TestStreamUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees every stream", func(t *testing.T) {
		env := setupStreamUseCase(t)
		env.streamRepo.add(&domain.Stream{OwnerUserID: 7, Enabled: true})
		env.streamRepo.add(&domain.Stream{OwnerUserID: 2, Enabled: true})

		streams, err := env.useCase.List(ctx, env.admin(), 0, 50)
		require.NoError(t, err)
		assert.Len(t, streams, 2)
	})

	t.Run("own visibility scopes the listing", func(t *testing.T) {
		env := setupStreamUseCase(t)
		mine := env.streamRepo.add(&domain.Stream{OwnerUserID: 7, Enabled: true})
		env.streamRepo.add(&domain.Stream{OwnerUserID: 2, Enabled: true})

		streams, err := env.useCase.List(ctx, env.jane(), 0, 50)
		require.NoError(t, err)
		require.Len(t, streams, 1)
		assert.Equal(t, mine.ID, streams[0].ID)
	})

	t.Run("invalid credential", func(t *testing.T) {
		env := setupStreamUseCase(t)

		_, err := env.useCase.List(ctx, env.engine.NewContext("bogus"), 0, 50)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestStreamUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("owner updates its stream", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{
			OwnerUserID: 7, Enabled: true,
			IncomingPort: 9000, ForwardHost: "10.0.0.5",
			ForwardingPort: 5432, TCPForwarding: true,
		})

		stream, err := env.useCase.Update(ctx, env.jane(), seeded.ID, &domain.UpdateStreamInput{
			IncomingPort:   9100,
			ForwardHost:    "10.0.0.9",
			ForwardingPort: 6432,
			TCPForwarding:  true,
			UDPForwarding:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, 9100, stream.IncomingPort)
		assert.True(t, stream.UDPForwarding)

		require.Len(t, env.recorder.entries, 1)
		assert.Equal(t, "updated", env.recorder.entries[0].action)
	})

	t.Run("view capability cannot update", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{
			OwnerUserID: 9, Enabled: true,
			IncomingPort: 9000, ForwardHost: "10.0.0.5",
			ForwardingPort: 5432, TCPForwarding: true,
		})

		_, err := env.useCase.Update(ctx, env.mark(), seeded.ID, &domain.UpdateStreamInput{
			IncomingPort:   9100,
			ForwardHost:    "10.0.0.5",
			ForwardingPort: 5432,
			TCPForwarding:  true,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("invalid input", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{
			OwnerUserID: 7, Enabled: true,
			IncomingPort: 9000, ForwardHost: "10.0.0.5",
			ForwardingPort: 5432, TCPForwarding: true,
		})

		_, err := env.useCase.Update(ctx, env.jane(), seeded.ID, &domain.UpdateStreamInput{
			IncomingPort:   9000,
			ForwardHost:    "10.0.0.5",
			ForwardingPort: 5432,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Empty(t, env.recorder.entries)
	})
}

func TestStreamUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes its stream", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{OwnerUserID: 7, Enabled: true})

		require.NoError(t, env.useCase.Delete(ctx, env.jane(), seeded.ID))
		assert.True(t, env.streamRepo.streams[seeded.ID].IsDeleted)

		require.Len(t, env.recorder.entries, 1)
		assert.Equal(t, "deleted", env.recorder.entries[0].action)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{OwnerUserID: 1, Enabled: true})

		require.NoError(t, env.useCase.Delete(ctx, env.admin(), seeded.ID))
		err := env.useCase.Delete(ctx, env.admin(), seeded.ID)
		assert.ErrorIs(t, err, domain.ErrStreamNotFound)
	})
}

func TestStreamUseCase_SetEnabled(t *testing.T) {
	ctx := context.Background()

	t.Run("disable records the action", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{OwnerUserID: 7, Enabled: true})

		stream, err := env.useCase.SetEnabled(ctx, env.jane(), seeded.ID, false)
		require.NoError(t, err)
		assert.False(t, stream.Enabled)

		require.Len(t, env.recorder.entries, 1)
		assert.Equal(t, "disabled", env.recorder.entries[0].action)
	})

	t.Run("enabling an enabled stream is a no-op", func(t *testing.T) {
		env := setupStreamUseCase(t)
		seeded := env.streamRepo.add(&domain.Stream{OwnerUserID: 7, Enabled: true})

		stream, err := env.useCase.SetEnabled(ctx, env.jane(), seeded.ID, true)
		require.NoError(t, err)
		assert.True(t, stream.Enabled)
		assert.Empty(t, env.recorder.entries)
	})
}
