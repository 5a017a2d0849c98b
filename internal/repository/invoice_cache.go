package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisInvoiceCache struct {
	client *redis.Client
	prefix string
}

// NewRedisInvoiceCache stores entries under "<prefix>:<key>".
func NewRedisInvoiceCache(client *redis.Client, prefix string) InvoiceCache {
	return &redisInvoiceCache{client: client, prefix: prefix}
}

func (c *redisInvoiceCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisInvoiceCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *redisInvoiceCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
