package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is the response-cache contract. Reads within the TTL window return
// whatever was cached, even if the underlying rows changed since: writes do
// not invalidate, only expiry or an explicit delete does.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

var active Store

// Use installs the cache store. Tests install a MemoryStore; production
// installs the redis store through InitFromEnv.
func Use(s Store) {
	active = s
}

func Get(ctx context.Context, key string) (string, error) {
	if active == nil {
		return "", fmt.Errorf("cache not initialized")
	}
	return active.Get(ctx, key)
}

func Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if active == nil {
		return fmt.Errorf("cache not initialized")
	}
	return active.Set(ctx, key, value, ttl)
}

func Delete(ctx context.Context, key string) error {
	if active == nil {
		return nil
	}
	return active.Delete(ctx, key)
}

func DeleteByPrefix(ctx context.Context, prefix string) error {
	if active == nil {
		return nil
	}
	return active.DeleteByPrefix(ctx, prefix)
}
