package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocesdelaextincion/voces-de-la-extincion-api/internal/config"
)

type testStruct struct {
	Name string
	Age  int
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	in := testStruct{Name: "yaguareté", Age: 7}
	require.NoError(t, cache.Set("recording:test", in, time.Minute))

	var out testStruct
	found, err := cache.Get("recording:test", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGet_Miss(t *testing.T) {
	cache := setupTestCache(t)

	var out testStruct
	found, err := cache.Get("recording:absent", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("recording:gone", testStruct{Name: "x"}, time.Minute))
	require.NoError(t, cache.Invalidate("recording:gone"))

	var out testStruct
	found, err := cache.Get("recording:gone", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
