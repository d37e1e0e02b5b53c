package cachemanager

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/zjrosen/clothespin/internal/lexer"
)

// Key identifies a source text by content.
type Key string

// KeyFor returns the content key of src.
func KeyFor(src string) Key {
	return Key(strconv.FormatUint(xxhash.Sum64String(src), 16) + ":" + strconv.Itoa(len(src)))
}

// Entry is a cached tokenization result. Err is the tokenizer's Err and is
// cached like the tokens.
type Entry struct {
	Source string
	Items  []lexer.Item
	Err    error
}

// TokenCache serves token streams for unchanged source text without
// tokenizing again.
type TokenCache struct {
	store  *MemoryStore[Key, Entry]
	loader *Loader[Key, Entry, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewTokenCache returns a cache whose entries live for ttl after their last
// use.
func NewTokenCache(ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	c := &TokenCache{store: NewMemoryStore[Key, Entry]("tokens", ttl, DefaultCleanupInterval)}
	c.loader = NewLoader[Key, Entry, string](c.store, tokenize, ttl)
	return c
}

func tokenize(ctx context.Context, src string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	items, err := lexer.Tokenize(src)
	return Entry{Source: src, Items: items, Err: err}, nil
}

// Lookup returns the tokenization of src and whether it came from the
// cache. The error is non-nil only when ctx is done; lex failures are in
// Entry.Err. Entry.Items is shared and must not be modified.
func (c *TokenCache) Lookup(ctx context.Context, src string) (Entry, bool, error) {
	entry, cached, err := c.loader.Get(ctx, KeyFor(src), src)
	if err != nil {
		return Entry{}, false, err
	}
	if entry.Source != src {
		// Digest collision: tokenize without caching
		cached = false
		if entry, err = tokenize(ctx, src); err != nil {
			return Entry{}, false, err
		}
	}
	if cached {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return entry, cached, nil
}

// Tokenize is lexer.Tokenize through the cache.
func (c *TokenCache) Tokenize(ctx context.Context, src string) ([]lexer.Item, error) {
	entry, _, err := c.Lookup(ctx, src)
	if err != nil {
		return nil, err
	}
	return entry.Items, entry.Err
}

// Len returns the number of cached sources.
func (c *TokenCache) Len() int {
	return c.store.Len()
}

// Expired returns how many cached sources were dropped after their ttl.
func (c *TokenCache) Expired() int64 {
	return c.store.Evictions()
}

// Stats returns the number of lookups served from the cache and the number
// that had to tokenize.
func (c *TokenCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
