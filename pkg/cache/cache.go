// Package cache caches fetched market data (quotes, candles, news) so the
// data providers stay within upstream API rate limits. Values are stored
// as JSON, so any marshalable type round-trips through Get and Set.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service is the cache contract the data providers depend on. Get returns
// ErrCacheMiss when the key is absent or expired.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}
