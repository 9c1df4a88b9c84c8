package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/memorise/testimony-explorer/internal/domain/providers"
)

// MemoryAdapter implements the CacheProvider interface with an
// in-process expiring LRU. It is the default backend when Redis is not
// configured. The TTL is fixed at construction; per-call expirations
// are ignored.
type MemoryAdapter struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryAdapter creates an in-process cache adapter holding at most
// maxEntries values for at most ttl each.
func NewMemoryAdapter(maxEntries int, ttl time.Duration) providers.CacheProvider {
	return &MemoryAdapter{
		lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := a.lru.Get(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return value, nil
}

// Set stores a value in cache
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, _ int) error {
	a.lru.Add(key, value)
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.lru.Remove(key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	return a.lru.Contains(key), nil
}
