// Package cachemanager keeps tokenization results for source text that has
// not changed since it was last seen.
package cachemanager

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/clothespin/internal/log"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Store is a keyed cache with per-entry TTLs. A ttl of 0 means the store's
// default expiration.
type Store[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Touch(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
}

// MemoryStore is a Store backed by go-cache.
type MemoryStore[K ~string, V any] struct {
	name      string
	cache     *gocache.Cache
	evictions atomic.Int64
}

var _ Store[Key, Entry] = (*MemoryStore[Key, Entry])(nil)

// NewMemoryStore returns an empty store. name identifies it in log output.
func NewMemoryStore[K ~string, V any](name string, ttl, cleanupInterval time.Duration) *MemoryStore[K, V] {
	s := &MemoryStore[K, V]{
		name:  name,
		cache: gocache.New(ttl, cleanupInterval),
	}
	s.cache.OnEvicted(func(key string, _ any) {
		s.evictions.Add(1)
		log.Debug(log.CatCache, "Evicted entry", "cache", name, "key", key)
	})
	return s
}

func (s *MemoryStore[K, V]) Get(_ context.Context, key K) (V, bool) {
	var zero V
	raw, found := s.cache.Get(string(key))
	if !found {
		log.Debug(log.CatCache, "cache miss", "cache", s.name, "key", key)
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		log.Error(log.CatCache, "cached value has unexpected type", "cache", s.name, "key", key)
		return zero, false
	}
	log.Debug(log.CatCache, "cache hit", "cache", s.name, "key", key)
	return v, true
}

// Touch is Get, restarting the entry's ttl on a hit.
func (s *MemoryStore[K, V]) Touch(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	v, ok := s.Get(ctx, key)
	if ok {
		s.Set(ctx, key, v, ttl)
	}
	return v, ok
}

func (s *MemoryStore[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	s.cache.Set(string(key), value, ttl)
}

// Len returns the number of entries, including expired ones the janitor
// has not removed yet.
func (s *MemoryStore[K, V]) Len() int {
	return s.cache.ItemCount()
}

// Evictions returns how many entries expired.
func (s *MemoryStore[K, V]) Evictions() int64 {
	return s.evictions.Load()
}
