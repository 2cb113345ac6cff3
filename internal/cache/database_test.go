package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopstack/catalogd/internal/database/testutil"
	"github.com/shopstack/catalogd/internal/models"
)

func TestDatabaseStore_SetGetDelete(t *testing.T) {
	store := NewDatabaseStore(testutil.MustOpenTestDB(t))
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte("v1"), time.Minute))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v1"), value)

	// Upsert replaces the stored value.
	require.NoError(t, store.Set(ctx, "k", []byte("v2"), time.Minute))
	value, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v2"), value)

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDatabaseStore_ExpiredEntryIsAbsent(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	store := NewDatabaseStore(db)
	ctx := context.Background()

	expired := models.CacheEntry{
		Key:       "stale",
		Value:     []byte("old"),
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, db.Create(&expired).Error)

	_, ok, err := store.Get(ctx, "stale")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDatabaseStore_IncrementWithTTL(t *testing.T) {
	store := NewDatabaseStore(testutil.MustOpenTestDB(t))
	ctx := context.Background()

	count, ttl, err := store.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Greater(t, ttl, time.Duration(0))

	count, _, err = store.IncrementWithTTL(ctx, "counter", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestDatabaseStore_PurgeExpired(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	store := NewDatabaseStore(db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "live", []byte("x"), time.Hour))
	require.NoError(t, db.Create(&models.CacheEntry{
		Key:       "dead",
		Value:     []byte("y"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, ok, err := store.Get(ctx, "live")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProductKey(t *testing.T) {
	require.Equal(t, "product:7", ProductKey(7))
	require.Equal(t, "products:all", ListingKey)
}
