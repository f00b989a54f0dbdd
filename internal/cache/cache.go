// Package cache provides the get-or-populate / invalidate cache used for raw
// payment plan records, backed by sturdyc.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viccon/sturdyc"
)

// KeySeparator delimits cache key segments.
const KeySeparator = "::"

// ErrNotFound signals that the populate function found no record. Fetches
// returning it are surfaced as ErrNotFound and the miss is never stored, so a
// user without a persisted plan does not occupy a cache slot.
var ErrNotFound = errors.New("cache: record not found")

// Key identifies a cached entity instance. Building keys from a struct rather
// than ad-hoc format strings keeps key construction in one place.
type Key struct {
	Entity string
	UserID string
}

func (k Key) String() string {
	return k.Entity + KeySeparator + k.UserID
}

// PlanKey is the cache key for a user's raw payment plan record.
func PlanKey(userID string) Key {
	return Key{Entity: "UserPaymentPlan", UserID: userID}
}

// Config holds the tuning knobs for the underlying sturdyc client.
type Config struct {
	// Capacity is the maximum number of cached entries.
	Capacity int

	// NumShards is the shard count for concurrent access.
	NumShards int

	// TTL is how long an entry lives after population.
	TTL time.Duration

	// EvictionPercentage is the share of entries evicted when the cache is
	// full, between 1 and 100.
	EvictionPercentage int
}

// DefaultConfig returns the settings used in production: plan records expire
// one hour after population.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                time.Hour,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("cache config: capacity must be greater than 0")
	case c.NumShards <= 0:
		return fmt.Errorf("cache config: num shards must be greater than 0")
	case c.TTL <= 0:
		return fmt.Errorf("cache config: ttl must be greater than 0")
	case c.EvictionPercentage < 1 || c.EvictionPercentage > 100:
		return fmt.Errorf("cache config: eviction percentage must be between 1 and 100")
	}
	return nil
}

// Cache is a typed wrapper over a sturdyc client exposing the two operations
// the payment plan service needs: get-or-populate and invalidate.
type Cache[T any] struct {
	client *sturdyc.Client[T]
}

// New constructs a Cache from cfg.
func New[T any](cfg Config) (*Cache[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[T](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return &Cache[T]{client: client}, nil
}

// GetOrFetch returns the cached value for key, running fetch to populate the
// entry on a miss. The populated value lives for the configured TTL. A fetch
// returning ErrNotFound is passed through without caching the miss.
func (c *Cache[T]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := c.client.GetOrFetch(ctx, key, func(ctx context.Context) (T, error) {
		v, err := fetch(ctx)
		if errors.Is(err, ErrNotFound) {
			return v, sturdyc.ErrNotFound
		}
		return v, err
	})
	if err != nil {
		var zero T
		if errors.Is(err, sturdyc.ErrNotFound) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return v, nil
}

// Invalidate drops key from the cache so the next GetOrFetch repopulates from
// the source of truth.
func (c *Cache[T]) Invalidate(ctx context.Context, key string) error {
	c.client.Delete(key)
	return nil
}
