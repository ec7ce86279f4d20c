package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type summary struct {
	TotalSales int64  `json:"total_sales"`
	Gross      string `json:"gross"`
}

func newTestCache(t *testing.T) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSummaryCache(client, time.Minute, zaptest.NewLogger(t)), mr
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got summary
	ok, err := c.Load(ctx, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Store(ctx, summary{TotalSales: 3, Gross: "24.00"}))

	ok, err = c.Load(ctx, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, summary{TotalSales: 3, Gross: "24.00"}, got)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestSummaryCacheInvalidateAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, summary{TotalSales: 1}))
	require.NoError(t, c.Invalidate(ctx))

	var got summary
	ok, err := c.Load(ctx, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Store(ctx, summary{TotalSales: 2}))
	mr.FastForward(2 * time.Minute)

	ok, err = c.Load(ctx, &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
