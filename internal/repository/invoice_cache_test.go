package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisInvoiceCache_Key(t *testing.T) {
	prefixed := &redisInvoiceCache{prefix: "installments"}
	assert.Equal(t, "installments:invoice:1", prefixed.key("invoice:1"))

	bare := &redisInvoiceCache{}
	assert.Equal(t, "invoice:1", bare.key("invoice:1"))
}

func TestRedisInvoiceCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewRedisInvoiceCache(client, "installments")

	_, found, err := cache.Get(context.Background(), "invoice:1")
	assert.Error(t, err)
	assert.False(t, found)

	assert.Error(t, cache.Set(context.Background(), "invoice:1", "{}", time.Minute))
}
