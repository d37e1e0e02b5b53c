package cachemanager

import (
	"context"
	"time"
)

// Loader fills a Store on misses. Load errors are returned and never
// stored. Hits restart the entry's ttl.
type Loader[K comparable, V any, I any] struct {
	store Store[K, V]
	load  func(ctx context.Context, input I) (V, error)
	ttl   time.Duration
}

func NewLoader[K comparable, V any, I any](
	store Store[K, V],
	load func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
) *Loader[K, V, I] {
	return &Loader[K, V, I]{store: store, load: load, ttl: ttl}
}

// Get returns the value under key, calling load with input on a miss.
func (l *Loader[K, V, I]) Get(ctx context.Context, key K, input I) (V, bool, error) {
	if v, ok := l.store.Touch(ctx, key, l.ttl); ok {
		return v, true, nil
	}
	v, err := l.load(ctx, input)
	if err != nil {
		return v, false, err
	}
	l.store.Set(ctx, key, v, l.ttl)
	return v, false, nil
}
