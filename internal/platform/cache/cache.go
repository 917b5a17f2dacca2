// Package cache memoizes parsed statements by upload content so repeated
// dashboard queries over the same file skip reading and coercion.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the number of entries kept when no size is configured.
const DefaultSize = 32

// Key identifies a parse by the upload bytes and every setting that changes
// its output.
func Key(data []byte, parts ...string) string {
	h := sha256.New()
	h.Write(data)
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache is a size-bounded, concurrency-safe LRU. Concurrent misses on the
// same key share a single load.
type Cache[V any] struct {
	entries *lru.Cache[string, V]
	group   singleflight.Group
}

func New[V any](size int) (*Cache[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}
	return &Cache[V]{entries: entries}, nil
}

// GetOrLoad returns the cached value for key, calling load on a miss. Errors
// are returned to every waiter and never cached. hit reports whether the
// value came from the cache.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (v V, hit bool, err error) {
	if v, ok := c.entries.Get(key); ok {
		return v, true, nil
	}
	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

func (c *Cache[V]) Purge() {
	c.entries.Purge()
}
