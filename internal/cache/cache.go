package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultTTL keeps availability responses short-lived; a booking mutation
// invalidates the whole service anyway.
const DefaultTTL = 30 * time.Second

// AvailabilityCache stores serialized availability responses keyed per
// service, so one booking write can drop every cached range for that service.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr string, db int) *AvailabilityCache {
	return &AvailabilityCache{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
		ttl: DefaultTTL,
	}
}

func NewWithClient(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func (c *AvailabilityCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func serviceKey(serviceID uint, suffix string) string {
	return fmt.Sprintf("availability:%d:%s", serviceID, suffix)
}

func (c *AvailabilityCache) Get(ctx context.Context, serviceID uint, suffix string) ([]byte, bool) {
	val, err := c.client.Get(ctx, serviceKey(serviceID, suffix)).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *AvailabilityCache) Set(ctx context.Context, serviceID uint, suffix string, payload []byte) {
	c.client.Set(ctx, serviceKey(serviceID, suffix), payload, c.ttl)
}

// InvalidateService drops every cached availability entry for the service.
func (c *AvailabilityCache) InvalidateService(ctx context.Context, serviceID uint) {
	pattern := fmt.Sprintf("availability:%d:*", serviceID)

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
