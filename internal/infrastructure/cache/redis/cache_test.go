package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	c, err := NewCache(Config{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)

	t.Cleanup(func() {
		c.Close()
		mr.Close()
	})

	return mr, c
}

func TestNewCache_ConnectionFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	c, err := NewCache(Config{Host: host, Port: port})
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestCache_SetAndGet(t *testing.T) {
	_, c := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "advisor:league:1:meta", []byte("v1"), time.Minute))

	got, err := c.Get(ctx, "advisor:league:1:meta")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestCache_GetNotFound(t *testing.T) {
	_, c := setupMiniredis(t)

	got, err := c.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_TTLExpiry(t *testing.T) {
	mr, c := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_Delete(t *testing.T) {
	_, c := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	deleted, err := c.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = c.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCache_DeletePattern(t *testing.T) {
	_, c := setupMiniredis(t)
	ctx := context.Background()

	for _, k := range []string{"advisor:league:7:meta", "advisor:league:7:rosters", "advisor:league:8:meta"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), 0))
	}

	n, err := c.DeletePattern(ctx, "advisor:league:7:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := c.Get(ctx, "advisor:league:8:meta")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCache_ErrorsWhenServerGone(t *testing.T) {
	mr, c := setupMiniredis(t)
	mr.Close()

	_, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}
