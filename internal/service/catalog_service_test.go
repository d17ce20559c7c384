package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mega4Real/ednascollectionnew/internal/cache"
	"github.com/Mega4Real/ednascollectionnew/internal/notify"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

func newCatalogFixture() (*CatalogService, *mockProductRepo, *mockCache, *notify.Hub) {
	repo := newMockProductRepo()
	cache := &mockCache{}
	hub := notify.NewHub()
	return NewCatalogService(repo, cache, hub), repo, cache, hub
}

func dressInput(image string, price float64) ProductInput {
	return ProductInput{
		ImageURL: image,
		Price:    price,
		Sizes:    []string{"S", "M"},
	}
}

func TestCreate_AppendsAtTail(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, dressInput("https://cdn.example.com/1.jpg", 120))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)

	second, err := svc.Create(ctx, dressInput("https://cdn.example.com/2.jpg", 250))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{Price: 10, Sizes: []string{"S"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, ProductInput{ImageURL: "x.jpg", Price: -1, Sizes: []string{"S"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, ProductInput{ImageURL: "x.jpg", Price: 10})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()

	_, err := svc.Update(context.Background(), 42, dressInput("x.jpg", 10))
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestReorder_AssignsSequentialPositions(t *testing.T) {
	svc, repo, _, _ := newCatalogFixture()
	ctx := context.Background()

	// Three products created in order 1, 2, 3.
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, dressInput("https://cdn.example.com/d.jpg", 100))
		require.NoError(t, err)
	}

	// Move the last one to the front.
	require.NoError(t, svc.Reorder(ctx, []int64{3, 1, 2}))

	list, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), list[0].ID)
	assert.Equal(t, int64(1), list[1].ID)
	assert.Equal(t, int64(2), list[2].ID)

	// Positions are a permutation of 1..n following the requested order.
	for i, p := range list {
		assert.Equal(t, i+1, p.Position)
	}
}

func TestReorder_UnknownIDChangesNothing(t *testing.T) {
	svc, repo, _, _ := newCatalogFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, dressInput("https://cdn.example.com/d.jpg", 100))
		require.NoError(t, err)
	}

	err := svc.Reorder(ctx, []int64{2, 99, 1})
	assert.ErrorIs(t, err, ErrValidation)

	list, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)
}

func TestReorder_EmptyList(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()

	err := svc.Reorder(context.Background(), nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMutations_NotifySubscribersAndInvalidateCache(t *testing.T) {
	svc, _, cache, _ := newCatalogFixture()
	ctx := context.Background()

	sub, err := svc.Subscribe()
	require.NoError(t, err)
	defer svc.Unsubscribe(sub)

	_, err = svc.Create(ctx, dressInput("https://cdn.example.com/d.jpg", 100))
	require.NoError(t, err)

	select {
	case <-sub.C:
	default:
		t.Fatal("expected a change signal after create")
	}
	assert.Equal(t, 1, cache.invalidatedCount())
}

func TestList_ServedFromCache(t *testing.T) {
	svc, repo, cache, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, dressInput("https://cdn.example.com/d.jpg", 100))
	require.NoError(t, err)

	// Seed the cache with a marker the repo doesn't contain.
	cached, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	cached[0].ImageURL = "cached.jpg"
	require.NoError(t, cache.Set(ctx, cached))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cached.jpg", list[0].ImageURL)
}

func TestList_RepopulatesCacheBeforeReturning(t *testing.T) {
	svc, _, listCache, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, dressInput("https://cdn.example.com/d.jpg", 100))
	require.NoError(t, err)

	// The first read is a miss; the listing is cached before List returns.
	_, err = svc.List(ctx)
	require.NoError(t, err)
	stored, err := listCache.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// A mutation after the read leaves the cache empty, never stale.
	_, err = svc.Create(ctx, dressInput("https://cdn.example.com/e.jpg", 120))
	require.NoError(t, err)
	_, err = listCache.Get(ctx)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestList_CacheErrorFallsBackToRepo(t *testing.T) {
	svc, _, cache, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, dressInput("https://cdn.example.com/d.jpg", 100))
	require.NoError(t, err)

	cache.getErr = assert.AnError
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
