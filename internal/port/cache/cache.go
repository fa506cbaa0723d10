// Package cache defines the key-value store behind request idempotency.
// Replayable responses are written under owner-scoped keys and expire after
// the configured TTL; implementations live in adapter/ristretto (in process),
// adapter/natskv (shared across instances) and adapter/tiered (both).
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values. Get reports a miss with ok == false and a nil
// error. Set's ttl is per entry where the store supports it; natskv applies
// its bucket TTL instead.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
