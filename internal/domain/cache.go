package domain

import (
	"context"
	"time"
)

// Cache is a simple string cache. Implementations must return ErrCacheMiss
// for absent keys so callers can distinguish misses from transport errors.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
