package resultstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readum/internal/cache"
	"readum/internal/domain"
)

// CacheStore keeps result blobs in the shared cache with a TTL.
type CacheStore struct {
	cache domain.Cache
	ttl   time.Duration
}

var _ domain.ResultStore = (*CacheStore)(nil)

func NewCacheStore(c domain.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) key(id string) string {
	return cache.GenerateCacheKey("result", "answer", id)
}

func (s *CacheStore) Put(ctx context.Context, key string, blob []byte) error {
	if err := s.cache.Set(ctx, s.key(key), string(blob), s.ttl); err != nil {
		return fmt.Errorf("cache put %s: %w", key, err)
	}
	return nil
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.cache.Get(ctx, s.key(key))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return []byte(val), nil
}
