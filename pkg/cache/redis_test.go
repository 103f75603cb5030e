package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfNoRedis(t *testing.T) {
	if os.Getenv("REDIS_TEST_ADDR") == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}
}

func TestNewRedisCache(t *testing.T) {
	skipIfNoRedis(t)

	opts := &Options{
		Backend:       "redis",
		RedisAddr:     os.Getenv("REDIS_TEST_ADDR"),
		RedisPassword: os.Getenv("REDIS_TEST_PASSWORD"),
		RedisDB:       0,
		DefaultTTL:    time.Minute,
	}

	cache, err := NewRedisCache(opts)
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()

	err = cache.Set(ctx, "test-key", []byte("test-value"), time.Minute)
	require.NoError(t, err)

	val, err := cache.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, "test-value", string(val))

	cache.Delete(ctx, "test-key")
}

func TestRedisCache_NotFound(t *testing.T) {
	skipIfNoRedis(t)

	opts := &Options{
		Backend:   "redis",
		RedisAddr: os.Getenv("REDIS_TEST_ADDR"),
	}

	cache, err := NewRedisCache(opts)
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Get(context.Background(), "nonexistent-key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
