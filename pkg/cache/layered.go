package cache

import (
	"context"
	"time"
)

// LayeredCache reads through an in-process L1 before Redis. Writes go to
// Redis first so a local write never outlives the shared copy.
type LayeredCache struct {
	local  *MemoryCache
	shared *RedisCache
}

func NewLayeredCache(shared *RedisCache, memOpts ...MemoryOption) *LayeredCache {
	return &LayeredCache{
		local:  NewMemoryCache(memOpts...),
		shared: shared,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := lc.shared.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = lc.local.Set(ctx, key, value, ttl)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.local.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.shared.Get(ctx, key, dest); err != nil {
		return err
	}
	// Promote to L1. A short TTL keeps replicas from serving stale data
	// long after the shared copy changes.
	_ = lc.local.Set(ctx, key, dest, time.Minute)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.local.Delete(ctx, keys...)
	return lc.shared.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, key string) (bool, error) {
	if ok, _ := lc.local.Exists(ctx, key); ok {
		return true, nil
	}
	return lc.shared.Exists(ctx, key)
}

func (lc *LayeredCache) Close() error {
	_ = lc.local.Close()
	return lc.shared.Close()
}
