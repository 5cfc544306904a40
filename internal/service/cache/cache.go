// Package cache provides byte-oriented response caching for the HTTP
// handlers. Values are pre-serialized API envelopes, so the cache never
// needs to know about the shapes it stores.
package cache

import "time"

// BytesCache stores opaque byte slices with a per-entry TTL.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
