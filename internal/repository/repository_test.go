package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jamolkhon5/hackwoo/internal/models"
	"github.com/Jamolkhon5/hackwoo/internal/savedideas"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestMigrate_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.Migrate(context.Background()))
}

func TestUpsertUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.UpsertUser(ctx, models.User{ExternalID: "u-1", Email: "ana@example.com", FirstName: "Ana"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "Ana", first.FirstName)

	second, err := repo.UpsertUser(ctx, models.User{ExternalID: "u-1", Email: "ana@new.example.com", FirstName: "Ana", LastName: "Lee"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same external id keeps one row")
	assert.Equal(t, "ana@new.example.com", second.Email)
	assert.Equal(t, "Lee", second.LastName)

	var count int
	require.NoError(t, repo.db.Get(&count, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, 1, count)
}

func TestGetUserByExternalID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetUserByExternalID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVStore_ScopedByUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ana, bob := repo.KV("ana"), repo.KV("bob")

	require.NoError(t, ana.Set(ctx, "k", "1"))
	require.NoError(t, ana.Set(ctx, "k", "2"))

	v, ok, err := ana.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok, err = bob.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ana.Delete(ctx, "k"))
	_, ok, err = ana.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSavedIdeas_SurviveReload(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	list, err := savedideas.Load(ctx, repo.KV("ana"))
	require.NoError(t, err)
	require.NoError(t, list.Add(ctx, "Foodloop"))
	require.NoError(t, list.Add(ctx, "Sleepwell"))
	require.NoError(t, list.Add(ctx, "Parkshare"))
	require.NoError(t, list.Delete(ctx, 1))

	reloaded, err := savedideas.Load(ctx, repo.KV("ana"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Foodloop", "Parkshare"}, reloaded.All())
}

func TestRebind_Postgres(t *testing.T) {
	db := sqlx.NewDb(nil, DriverPostgres)
	assert.Equal(t, "SELECT value FROM kv_store WHERE user_id = $1 AND key = $2",
		db.Rebind(`SELECT value FROM kv_store WHERE user_id = ? AND key = ?`))
}

func TestUpdateKV_ConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.UpdateKV(ctx, "ana", func(kv *KVStore) error {
				list, err := savedideas.Load(ctx, kv)
				if err != nil {
					return err
				}
				return list.Add(ctx, fmt.Sprintf("idea-%d", i))
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := savedideas.Load(ctx, repo.KV("ana"))
	require.NoError(t, err)
	assert.Len(t, list.All(), n)
}

func TestUpdateKV_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	boom := errors.New("boom")

	err := repo.UpdateKV(ctx, "ana", func(kv *KVStore) error {
		require.NoError(t, kv.Set(ctx, "k", "v"))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, ok, err := repo.KV("ana").Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
