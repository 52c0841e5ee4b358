package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"villadesk/internal/app/middleware"
)

// IdempotencyStore keeps command results in an expiring in-memory cache so
// replays stop matching once the TTL runs out.
type IdempotencyStore struct {
	cache *gocache.Cache
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &IdempotencyStore{cache: gocache.New(ttl, 10*time.Minute)}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	val, ok := s.cache.Get(key)
	if !ok {
		return middleware.IdempotencyRecord{}, false, nil
	}
	rec, ok := val.(middleware.IdempotencyRecord)
	return rec, ok, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	s.cache.SetDefault(rec.Key, rec)
	return nil
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
