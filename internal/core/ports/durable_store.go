package ports

import (
	"context"
	"time"
)

// DurableStore is the key-value store the session survives reloads in.
// Get returns domain.ErrNotFound for missing or expired keys. A ttl <= 0
// on Set means the key does not expire.
type DurableStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
