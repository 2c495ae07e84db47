package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bizease/bizease-backend/internal/compliance"
	"github.com/bizease/bizease-backend/internal/models"
)

const checklistKeyPrefix = "bizease:checklist:"

// CachedChecklistStore is a read-through Redis cache in front of another
// compliance.Store. Redis failures are logged and never returned.
type CachedChecklistStore struct {
	next compliance.Store
	rdb  *redis.Client
	ttl  time.Duration
	log  *logrus.Entry
}

func NewCachedChecklistStore(next compliance.Store, rdb *redis.Client, ttl time.Duration) *CachedChecklistStore {
	return &CachedChecklistStore{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  logrus.WithField("component", "checklist_cache"),
	}
}

func checklistKey(businessID uuid.UUID) string {
	return checklistKeyPrefix + businessID.String()
}

func (s *CachedChecklistStore) Load(ctx context.Context, businessID uuid.UUID) ([]models.ChecklistItem, error) {
	raw, err := s.rdb.Get(ctx, checklistKey(businessID)).Bytes()
	switch {
	case err == nil:
		var items []models.ChecklistItem
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		s.log.WithField("business_id", businessID.String()).Warn("Discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		s.log.WithError(err).Warn("Checklist cache read failed")
	}

	items, err := s.next.Load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		s.put(ctx, businessID, items)
	}
	return items, nil
}

// Save writes to the backing store and drops the cached entry. The backing
// store may keep existing row ids, so the next Load refills the cache from
// it rather than from items.
func (s *CachedChecklistStore) Save(ctx context.Context, businessID uuid.UUID, items []models.ChecklistItem) error {
	err := s.next.Save(ctx, businessID, items)
	s.invalidate(ctx, businessID)
	return err
}

func (s *CachedChecklistStore) put(ctx context.Context, businessID uuid.UUID, items []models.ChecklistItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		s.log.WithError(err).Warn("Checklist cache encode failed")
		return
	}
	if err := s.rdb.Set(ctx, checklistKey(businessID), raw, s.ttl).Err(); err != nil {
		s.log.WithError(err).Warn("Checklist cache write failed")
	}
}

func (s *CachedChecklistStore) invalidate(ctx context.Context, businessID uuid.UUID) {
	if err := s.rdb.Del(ctx, checklistKey(businessID)).Err(); err != nil {
		s.log.WithError(err).Warn("Checklist cache invalidation failed")
	}
}
