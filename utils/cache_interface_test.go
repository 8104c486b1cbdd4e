package utils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(100, time.Second, nil)
	t.Cleanup(cache.Close)

	require.NoError(t, cache.Set(ctx, "test-key", "test-value", 5*time.Second))

	result, err := cache.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "test-value", result.Data)

	// Expiration
	require.NoError(t, cache.Set(ctx, "expire-key", "expire-value", 100*time.Millisecond))
	time.Sleep(200 * time.Millisecond)

	result, err = cache.Get(ctx, "expire-key")
	require.NoError(t, err)
	assert.False(t, result.Found)

	assert.True(t, cache.IsHealthy())
}

func TestMemoryCacheOverwriteKeepsSize(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10, time.Minute, nil)
	t.Cleanup(cache.Close)

	require.NoError(t, cache.Set(ctx, "key", "one", time.Minute))
	require.NoError(t, cache.Set(ctx, "key", "two", time.Minute))
	assert.Equal(t, 1, cache.Len())

	result, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "two", result.Data)
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	maxSize := 10
	cache := NewMemoryCache(maxSize, time.Minute, nil)
	t.Cleanup(cache.Close)

	for i := 0; i < maxSize; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("key-%d", i), "value", 5*time.Second))
	}

	// A full cache drops new keys without error.
	require.NoError(t, cache.Set(ctx, "overflow", "value", 5*time.Second))
	result, err := cache.Get(ctx, "overflow")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, maxSize, cache.Len())

	// Existing keys can still be refreshed.
	require.NoError(t, cache.Set(ctx, "key-0", "fresh", 5*time.Second))
	result, err = cache.Get(ctx, "key-0")
	require.NoError(t, err)
	assert.Equal(t, "fresh", result.Data)
}

func TestMemoryCacheFullReclaimsExpired(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(2, time.Hour, nil)
	t.Cleanup(cache.Close)

	require.NoError(t, cache.Set(ctx, "a", "value", 50*time.Millisecond))
	require.NoError(t, cache.Set(ctx, "b", "value", 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, cache.Set(ctx, "c", "value", time.Minute))
	result, err := cache.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCacheCleaner(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10, 20*time.Millisecond, nil)
	t.Cleanup(cache.Close)

	require.NoError(t, cache.Set(ctx, "short", "value", 10*time.Millisecond))
	assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestFallbackCache(t *testing.T) {
	ctx := context.Background()

	primary := NewMemoryCache(100, time.Second, nil)
	fallback := NewMemoryCache(100, time.Second, nil)
	t.Cleanup(primary.Close)
	t.Cleanup(fallback.Close)

	cache := NewFallbackCache(primary, fallback, nil)

	require.NoError(t, cache.Set(ctx, "test-key", "test-value", 5*time.Second))

	result, err := cache.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, CacheResult{Data: "test-value", Found: true}, result)

	// Dual write
	result, err = fallback.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.True(t, result.Found)

	assert.True(t, cache.IsHealthy())
	assert.True(t, cache.IsPrimaryHealthy())
}

func TestFallbackCachePrimaryError(t *testing.T) {
	ctx := context.Background()
	primary := &failingCache{healthy: true}
	fallback := NewMemoryCache(100, time.Minute, nil)
	t.Cleanup(fallback.Close)

	cache := NewFallbackCache(primary, fallback, nil)

	err := cache.Set(ctx, "key", "value", time.Minute)
	assert.Error(t, err)
	assert.Equal(t, 1, primary.sets)

	result, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", result.Data)
}

func TestFallbackCacheSkipsUnhealthyPrimary(t *testing.T) {
	ctx := context.Background()
	primary := &failingCache{healthy: false}
	fallback := NewMemoryCache(100, time.Minute, nil)
	t.Cleanup(fallback.Close)

	cache := NewFallbackCache(primary, fallback, nil)

	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
	assert.Equal(t, 0, primary.sets)
	assert.False(t, cache.IsPrimaryHealthy())
	assert.True(t, cache.IsHealthy())
}

func TestRedisCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	cache := NewRedisCache(client, nil)
	t.Cleanup(cache.Close)

	assert.False(t, cache.IsHealthy())

	result, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
}
