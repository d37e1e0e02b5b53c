package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/clothespin/internal/lexer"
	"github.com/zjrosen/clothespin/internal/strutil"
)

func TestKeyFor(t *testing.T) {
	require.Equal(t, KeyFor("abc"), KeyFor("abc"))
	require.NotEqual(t, KeyFor("abc"), KeyFor("abd"))
	require.NotEqual(t, KeyFor(""), KeyFor(" "))
}

func TestTokenCache_HitsUnchangedSource(t *testing.T) {
	ctx := context.Background()
	cache := NewTokenCache(time.Minute)
	src := "def f(x):\n    return x\n"

	first, err := cache.Tokenize(ctx, src)
	require.NoError(t, err)
	second, err := cache.Tokenize(ctx, src)
	require.NoError(t, err)
	require.Equal(t, first, second)

	want, _ := lexer.Tokenize(src)
	require.Equal(t, want, first)

	hits, misses := cache.Stats()
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(1), misses)
	require.Equal(t, 1, cache.Len())
}

func TestTokenCache_LookupReportsHits(t *testing.T) {
	ctx := context.Background()
	cache := NewTokenCache(time.Minute)

	entry, cached, err := cache.Lookup(ctx, "a = 1")
	require.NoError(t, err)
	require.False(t, cached)
	require.Equal(t, "a = 1", entry.Source)
	require.Len(t, entry.Items, 5)

	_, cached, err = cache.Lookup(ctx, "a = 1")
	require.NoError(t, err)
	require.True(t, cached)
}

func TestTokenCache_CachesTokenizerError(t *testing.T) {
	ctx := context.Background()
	cache := NewTokenCache(time.Minute)

	items, err := cache.Tokenize(ctx, "x = 'open")
	require.ErrorIs(t, err, strutil.ErrUnterminated)
	require.Len(t, items, 4)

	_, err = cache.Tokenize(ctx, "x = 'open")
	require.Error(t, err)
	hits, misses := cache.Stats()
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(1), misses)
}

func TestTokenCache_Cancelled(t *testing.T) {
	cache := NewTokenCache(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.Tokenize(ctx, "b")
	require.ErrorIs(t, err, context.Canceled)
	hits, misses := cache.Stats()
	require.Zero(t, hits)
	require.Zero(t, misses)
	require.Zero(t, cache.Len())
	require.Zero(t, cache.Expired())
}
