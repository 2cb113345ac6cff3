package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shopstack/catalogd/internal/cache"
	"github.com/shopstack/catalogd/internal/database/testutil"
	"github.com/shopstack/catalogd/internal/models"
)

func newTestService(t *testing.T) (*CatalogService, *cache.MemoryStore) {
	t.Helper()

	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	svc, err := NewCatalogService(testutil.MustOpenTestDB(t), store, time.Minute)
	require.NoError(t, err)
	return svc, store
}

func laptopInput() ProductInput {
	return ProductInput{
		Name:        "Laptop",
		Description: "High-performance laptop",
		Price:       decimal.RequireFromString("1299.99"),
		Stock:       10,
	}
}

func TestCatalogService_CreateThenGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, laptopInput())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Laptop", created.Name)
	require.Equal(t, "High-performance laptop", created.Description)
	require.Equal(t, "1299.99", created.Price.StringFixed(2))
	require.EqualValues(t, 10, created.Stock)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, created.Name, fetched.Name)
	require.Equal(t, created.Description, fetched.Description)
	require.True(t, fetched.Price.Equal(created.Price))
	require.Equal(t, "1299.99", fetched.Price.StringFixed(2))
	require.Equal(t, created.Stock, fetched.Stock)
}

func TestCatalogService_ListOrderedByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	names := []string{"Laptop", "Mouse", "Keyboard", "Monitor", "Webcam"}
	for _, name := range names {
		input := laptopInput()
		input.Name = name
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	products, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, products, len(names))

	for i := 1; i < len(products); i++ {
		require.Less(t, products[i-1].ID, products[i].ID, "listing must be ordered by ascending id")
	}
	for i, name := range names {
		require.Equal(t, name, products[i].Name)
	}
}

func TestCatalogService_GetUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_UpdateUnknownIDLeavesStoreUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, laptopInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID+100, ProductInput{
		Name:  "Ghost",
		Price: decimal.RequireFromString("1.00"),
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	unchanged, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Laptop", unchanged.Name)

	products, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestCatalogService_UpdateInvalidatesCachedRead(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, laptopInput())
	require.NoError(t, err)

	// Populate the per-id cache key.
	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	_, ok, err := store.Get(ctx, cache.ProductKey(created.ID))
	require.NoError(t, err)
	require.True(t, ok, "get should have populated the per-id key")

	input := laptopInput()
	input.Name = "Laptop Pro"
	input.Price = decimal.RequireFromString("1499.50")
	input.Stock = 4

	updated, err := svc.Update(ctx, created.ID, input)
	require.NoError(t, err)
	require.Equal(t, "Laptop Pro", updated.Name)
	require.Equal(t, "1499.50", updated.Price.StringFixed(2))

	_, ok, err = store.Get(ctx, cache.ProductKey(created.ID))
	require.NoError(t, err)
	require.False(t, ok, "update must delete the per-id key")

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Laptop Pro", fetched.Name)
	require.Equal(t, "1499.50", fetched.Price.StringFixed(2))
	require.EqualValues(t, 4, fetched.Stock)
}

func TestCatalogService_DeleteEvictsCachedProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, laptopInput())
	require.NoError(t, err)

	// Cache the record immediately before deletion.
	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrProductNotFound)

	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrProductNotFound)
}

func TestCatalogService_ListServedFromCache(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, laptopInput())
	require.NoError(t, err)

	first, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, first, 1)

	firstPayload, ok, err := store.Get(ctx, cache.ListingKey)
	require.NoError(t, err)
	require.True(t, ok, "list miss should populate the aggregate key")

	second, err := svc.List(ctx, true)
	require.NoError(t, err)

	secondPayload, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, firstPayload, secondPayload, "repeated cached listings must be byte-identical")
}

func TestCatalogService_CachedListingBypassesDatabase(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, laptopInput())
	require.NoError(t, err)

	_, err = svc.List(ctx, true)
	require.NoError(t, err)

	// Mutate the store out of band; a cached listing must not observe it.
	require.NoError(t, svc.db.Delete(&models.Product{}, "id = ?", created.ID).Error)

	cached, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, cached, 1, "cache hit must bypass the database entirely")

	fresh, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Empty(t, fresh)
}

func TestCatalogService_CreateInvalidatesListing(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, laptopInput())
	require.NoError(t, err)

	_, err = svc.List(ctx, true)
	require.NoError(t, err)

	input := laptopInput()
	input.Name = "Mouse"
	_, err = svc.Create(ctx, input)
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, cache.ListingKey)
	require.NoError(t, err)
	require.False(t, ok, "create must drop the aggregate key without repopulating it")

	products, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, products, 2)
}

func TestCatalogService_InputValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{Name: "   ", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, ProductInput{Name: "Bad Price", Price: decimal.RequireFromString("-0.01")})
	require.ErrorIs(t, err, ErrInvalidInput)
}
