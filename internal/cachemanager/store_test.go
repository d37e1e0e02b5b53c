package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[Key, Entry]("test", DefaultExpiration, DefaultCleanupInterval)
	want := Entry{Source: "x"}
	s.Set(ctx, "k", want, 0)

	got, ok := s.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, 1, s.Len())

	_, ok = s.Get(ctx, "missing")
	require.False(t, ok)
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[string, int]("test", DefaultExpiration, 5*time.Millisecond)
	s.Set(ctx, "short", 1, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := s.Get(ctx, "short")
		return !ok && s.Evictions() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryStore_TouchExtendsTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	s.Set(ctx, "k", "v", 30*time.Millisecond)

	got, ok := s.Touch(ctx, "k", time.Hour)
	require.True(t, ok)
	require.Equal(t, "v", got)

	time.Sleep(50 * time.Millisecond)
	_, ok = s.Get(ctx, "k")
	require.True(t, ok)

	_, ok = s.Touch(ctx, "other", time.Hour)
	require.False(t, ok)
	require.Equal(t, 1, s.Len())
}
