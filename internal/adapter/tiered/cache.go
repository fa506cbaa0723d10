// Package tiered implements a multi-level cache adapter.
package tiered

import (
	"context"
	"log/slog"
	"time"

	"github.com/Strob0t/CRMForge/internal/port/cache"
)

// Cache reads through its levels in order, fastest first, and backfills the
// faster levels on a hit further down. Writes and deletes go to every level.
type Cache struct {
	levels   []cache.Cache
	backfill time.Duration
}

var _ cache.Cache = (*Cache)(nil)

// New creates a tiered cache. Nil levels are skipped, so an unconfigured L2
// degrades to a single in-process level. backfill is the TTL used when
// copying a lower-level hit upwards.
func New(backfill time.Duration, levels ...cache.Cache) *Cache {
	c := &Cache{backfill: backfill}
	for _, l := range levels {
		if l != nil {
			c.levels = append(c.levels, l)
		}
	}
	return c
}

// Get returns the value from the first level that has it.
func (c *Cache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	for i, l := range c.levels {
		val, found, err := l.Get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if !found {
			continue
		}
		for _, upper := range c.levels[:i] {
			if err := upper.Set(ctx, key, val, c.backfill); err != nil {
				slog.WarnContext(ctx, "cache backfill failed", "error", err)
			}
		}
		return val, true, nil
	}
	return nil, false, nil
}

// Set writes to every level, stopping at the first error.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	for _, l := range c.levels {
		if err := l.Set(ctx, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the key from every level, stopping at the first error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	for _, l := range c.levels {
		if err := l.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
