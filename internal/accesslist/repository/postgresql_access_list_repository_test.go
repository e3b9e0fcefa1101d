package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/proxyadmin/internal/accesslist/domain"
	"github.com/allisson/proxyadmin/internal/testutil"
)

func createAccessList(t *testing.T, repo *PostgreSQLAccessListRepository, ownerID int64, name string) *domain.AccessList {
	t.Helper()

	list := &domain.AccessList{
		OwnerUserID: ownerID,
		Name:        name,
		SatisfyAny:  true,
		AuthItems: []domain.AuthItem{
			{Username: "alice", Password: "secret"},
		},
		ClientRules: []domain.ClientRule{
			{Address: "10.0.0.0/8", Directive: domain.DirectiveAllow},
		},
	}
	require.NoError(t, repo.Create(context.Background(), list))
	return list
}

func TestPostgreSQLAccessListRepository_Create(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccessListRepository(db)
	ctx := context.Background()

	ownerID := testutil.CreateTestUser(t, db, "postgres", "list-owner@example.com")
	list := createAccessList(t, repo, ownerID, "office")

	assert.Positive(t, list.ID)

	read, err := repo.GetByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, read.OwnerUserID)
	assert.Equal(t, "office", read.Name)
	assert.True(t, read.SatisfyAny)
	assert.False(t, read.PassAuth)
	require.Len(t, read.AuthItems, 1)
	assert.Equal(t, "alice", read.AuthItems[0].Username)
	require.Len(t, read.ClientRules, 1)
	assert.Equal(t, "10.0.0.0/8", read.ClientRules[0].Address)
	assert.Equal(t, domain.DirectiveAllow, read.ClientRules[0].Directive)
}

func TestPostgreSQLAccessListRepository_Create_EmptyItems(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccessListRepository(db)
	ctx := context.Background()

	ownerID := testutil.CreateTestUser(t, db, "postgres", "list-owner@example.com")
	list := &domain.AccessList{OwnerUserID: ownerID, Name: "empty"}
	require.NoError(t, repo.Create(ctx, list))

	read, err := repo.GetByID(ctx, list.ID)
	require.NoError(t, err)
	assert.NotNil(t, read.AuthItems)
	assert.Empty(t, read.AuthItems)
	assert.NotNil(t, read.ClientRules)
	assert.Empty(t, read.ClientRules)
}

func TestPostgreSQLAccessListRepository_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccessListRepository(db)

	_, err := repo.GetByID(context.Background(), 999999)
	assert.ErrorIs(t, err, domain.ErrAccessListNotFound)
}

func TestPostgreSQLAccessListRepository_List(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccessListRepository(db)
	ctx := context.Background()

	aliceID := testutil.CreateTestUser(t, db, "postgres", "alice@example.com")
	bobID := testutil.CreateTestUser(t, db, "postgres", "bob@example.com")

	createAccessList(t, repo, aliceID, "office")
	createAccessList(t, repo, aliceID, "home")
	createAccessList(t, repo, bobID, "vpn")

	lists, err := repo.List(ctx, 0, 0, 50)
	require.NoError(t, err)
	assert.Len(t, lists, 3)

	lists, err = repo.List(ctx, aliceID, 0, 50)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	for _, list := range lists {
		assert.Equal(t, aliceID, list.OwnerUserID)
	}

	lists, err = repo.List(ctx, 999999, 0, 50)
	require.NoError(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)
}

func TestPostgreSQLAccessListRepository_Update(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccessListRepository(db)
	ctx := context.Background()

	ownerID := testutil.CreateTestUser(t, db, "postgres", "list-owner@example.com")
	list := createAccessList(t, repo, ownerID, "office")

	list.Name = "office-renamed"
	list.PassAuth = true
	list.ClientRules = append(list.ClientRules, domain.ClientRule{
		Address: "192.168.1.50", Directive: domain.DirectiveDeny,
	})
	require.NoError(t, repo.Update(ctx, list))

	read, err := repo.GetByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "office-renamed", read.Name)
	assert.True(t, read.PassAuth)
	assert.Len(t, read.ClientRules, 2)

	err = repo.Update(ctx, &domain.AccessList{ID: 999999, Name: "missing"})
	assert.ErrorIs(t, err, domain.ErrAccessListNotFound)
}

func TestPostgreSQLAccessListRepository_SoftDelete(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccessListRepository(db)
	ctx := context.Background()

	ownerID := testutil.CreateTestUser(t, db, "postgres", "list-owner@example.com")
	list := createAccessList(t, repo, ownerID, "office")

	require.NoError(t, repo.SoftDelete(ctx, list.ID))

	_, err := repo.GetByID(ctx, list.ID)
	assert.ErrorIs(t, err, domain.ErrAccessListNotFound)

	err = repo.SoftDelete(ctx, list.ID)
	assert.ErrorIs(t, err, domain.ErrAccessListNotFound)
}
