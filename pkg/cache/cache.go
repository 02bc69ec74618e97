// Package cache stores encoded generation results keyed by a hash of the
// request. Backends:
//   - NullCache: never stores anything
//   - FileCache: one file per entry under a directory, for the CLI
//   - RedisCache: shared entries for server deployments
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Lookup when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL is the lifetime of a cached result.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the value for key. hit is false when the key is absent or
	// expired; that is not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Lookup decodes the JSON value stored under key into v. It returns
// ErrCacheMiss when there is nothing to decode.
func Lookup(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if !hit {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// Store encodes v as JSON and stores it under key.
func Store(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
