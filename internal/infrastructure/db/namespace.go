// Package db holds the durable store adapters and helpers shared by them.
package db

import (
	"context"
	"time"

	"github.com/medportal/portal/internal/core/ports"
)

type namespaced struct {
	prefix string
	inner  ports.DurableStore
}

// Namespace prefixes every key with prefix, giving each browser session its
// own pair of session keys inside a shared backend.
func Namespace(inner ports.DurableStore, prefix string) ports.DurableStore {
	return &namespaced{prefix: prefix, inner: inner}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, value, ttl)
}

func (n *namespaced) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = n.prefix + k
	}
	return n.inner.Delete(ctx, full...)
}

// SessionPrefix is the key prefix for the browser session sid.
func SessionPrefix(sid string) string {
	return "portal:session:" + sid + ":"
}
