package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*AvailabilityCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewWithClient(client, time.Minute), mr
}

func TestGetMissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := c.Get(context.Background(), 1, "2026-03-02:2026-03-08:[]")
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	payload := []byte(`{"data":[],"total":0}`)
	c.Set(ctx, 1, "2026-03-02:2026-03-08:[]", payload)

	got, ok := c.Get(ctx, 1, "2026-03-02:2026-03-08:[]")
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, 1, "week", []byte("payload"))
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, 1, "week")
	assert.False(t, ok)
}

func TestInvalidateServiceDropsOnlyItsKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, 1, "week-a", []byte("a"))
	c.Set(ctx, 1, "week-b", []byte("b"))
	c.Set(ctx, 2, "week-a", []byte("c"))

	c.InvalidateService(ctx, 1)

	_, ok := c.Get(ctx, 1, "week-a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, 1, "week-b")
	assert.False(t, ok)

	got, ok := c.Get(ctx, 2, "week-a")
	require.True(t, ok)
	assert.Equal(t, []byte("c"), got)
}

func TestPing(t *testing.T) {
	c, mr := newTestCache(t)

	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
