package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TransactionCache implements usecase.Cache using Redis. Values are
// opaque bytes; the usecase layer owns the serialization.
type TransactionCache struct {
	client *redis.Client
	prefix string
}

// NewTransactionCache creates a new TransactionCache.
func NewTransactionCache(client *redis.Client) *TransactionCache {
	return &TransactionCache{
		client: client,
		prefix: "txn:",
	}
}

// Get retrieves a cached value by key.
func (c *TransactionCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, c.prefix+key).Bytes()
}

// Set stores a value with TTL.
func (c *TransactionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a key.
func (c *TransactionCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
