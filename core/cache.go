package core

import "time"

// Cache is a process-wide key/value store with per-key TTLs and textual
// prefix invalidation. The cache only ever holds derived, time-bounded
// copies; the database remains the source of truth. Implementations are
// best-effort and must never be required for correctness.
type Cache interface {
	// Get returns the live value under key. An expired entry reports absent
	// even if it has not been swept yet.
	Get(key string) (interface{}, bool)
	// Set stores value under key, with an optional TTL overriding the
	// cache-wide default.
	Set(key string, value interface{}, ttl ...time.Duration)
	Delete(key string)
	// DeleteByPrefix removes every live key with the given textual prefix,
	// invalidating a whole namespace without tracking individual keys.
	DeleteByPrefix(prefix string)
	FlushAll()
}

// CachedQuery returns the value cached under key when present; on a miss it
// invokes producer once, caches the result and returns it. Concurrent misses
// on the same key are not de-duplicated: each may invoke producer, which is
// harmless since cached values are derived. A nil cache degrades to calling
// producer directly.
func CachedQuery(c Cache, key string, producer func() (interface{}, error), ttl ...time.Duration) (interface{}, error) {
	if c == nil {
		return producer()
	}
	if val, ok := c.Get(key); ok {
		return val, nil
	}
	val, err := producer()
	if err != nil {
		return nil, err
	}
	c.Set(key, val, ttl...)
	return val, nil
}
