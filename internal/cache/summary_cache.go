package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const summaryKey = "dashboard:summary"

// SummaryCache keeps the latest dashboard summary in Redis as JSON.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	hits   int64
	misses int64
}

func NewSummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SummaryCache {
	return &SummaryCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Load decodes the cached summary into dest. It reports false on a miss.
func (c *SummaryCache) Load(ctx context.Context, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, summaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		atomic.AddInt64(&c.misses, 1)
		return false, nil
	}
	if err != nil {
		atomic.AddInt64(&c.misses, 1)
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		atomic.AddInt64(&c.misses, 1)
		return false, err
	}

	atomic.AddInt64(&c.hits, 1)
	c.logger.Debug("summary cache hit")
	return true, nil
}

func (c *SummaryCache) Store(ctx context.Context, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey, data, c.ttl).Err()
}

func (c *SummaryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, summaryKey).Err()
}

// Stats returns hit and miss counters since startup.
func (c *SummaryCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}
