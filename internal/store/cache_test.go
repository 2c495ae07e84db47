package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizease/bizease-backend/internal/models"
)

type countingStore struct {
	items   map[uuid.UUID][]models.ChecklistItem
	loads   int
	saveErr error
}

func (s *countingStore) Save(_ context.Context, businessID uuid.UUID, items []models.ChecklistItem) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items[businessID] = items
	return nil
}

func (s *countingStore) Load(_ context.Context, businessID uuid.UUID) ([]models.ChecklistItem, error) {
	s.loads++
	return s.items[businessID], nil
}

func setupCache(t *testing.T) (*CachedChecklistStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	next := &countingStore{items: map[uuid.UUID][]models.ChecklistItem{}}
	return NewCachedChecklistStore(next, rdb, time.Hour), next, mr
}

func sampleItems(businessID uuid.UUID) []models.ChecklistItem {
	return []models.ChecklistItem{
		{ID: uuid.New(), BusinessID: businessID, CatalogID: "pan-card", Status: models.ChecklistStatusCompleted},
		{ID: uuid.New(), BusinessID: businessID, CatalogID: "aadhaar-card", Status: models.ChecklistStatusPending},
	}
}

func TestCachedChecklistStoreReadThrough(t *testing.T) {
	ctx := context.Background()
	cache, next, mr := setupCache(t)
	businessID := uuid.New()
	next.items[businessID] = sampleItems(businessID)

	items, err := cache.Load(ctx, businessID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, next.loads)
	assert.True(t, mr.Exists(checklistKey(businessID)))

	items, err = cache.Load(ctx, businessID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, next.loads, "second load should be served from redis")
	assert.Equal(t, models.ChecklistStatusCompleted, items[0].Status)
}

func TestCachedChecklistStoreSaveInvalidates(t *testing.T) {
	ctx := context.Background()
	cache, next, mr := setupCache(t)
	businessID := uuid.New()
	next.items[businessID] = sampleItems(businessID)

	_, err := cache.Load(ctx, businessID)
	require.NoError(t, err)
	require.True(t, mr.Exists(checklistKey(businessID)))

	updated := sampleItems(businessID)[:1]
	require.NoError(t, cache.Save(ctx, businessID, updated))
	assert.Len(t, next.items[businessID], 1)
	assert.False(t, mr.Exists(checklistKey(businessID)))

	items, err := cache.Load(ctx, businessID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, next.loads)
	assert.True(t, mr.Exists(checklistKey(businessID)))
	assert.Greater(t, mr.TTL(checklistKey(businessID)), time.Duration(0))
}

func TestCachedChecklistStoreSaveFailureInvalidates(t *testing.T) {
	ctx := context.Background()
	cache, next, mr := setupCache(t)
	businessID := uuid.New()
	require.NoError(t, cache.Save(ctx, businessID, sampleItems(businessID)))

	next.saveErr = errors.New("db down")
	err := cache.Save(ctx, businessID, sampleItems(businessID))
	assert.Error(t, err)
	assert.False(t, mr.Exists(checklistKey(businessID)))
}

func TestCachedChecklistStoreRedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	cache, next, mr := setupCache(t)
	businessID := uuid.New()
	next.items[businessID] = sampleItems(businessID)
	mr.Close()

	items, err := cache.Load(ctx, businessID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, cache.Save(ctx, businessID, items))
}

func TestCachedChecklistStoreIgnoresCorruptEntry(t *testing.T) {
	ctx := context.Background()
	cache, next, mr := setupCache(t)
	businessID := uuid.New()
	next.items[businessID] = sampleItems(businessID)
	require.NoError(t, mr.Set(checklistKey(businessID), "not json"))

	items, err := cache.Load(ctx, businessID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, next.loads)
}
