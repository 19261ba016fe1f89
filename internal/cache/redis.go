package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces all promotion result keys in Redis.
// Example: "promo:result:<checksum>:<digest>"
const KeyPrefix = "promo:result"

// RedisCache implements Service using the go-redis library.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache initializes a new Redis client and verifies connectivity.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	opts := &redis.Options{
		Addr: addr,
		// Timeouts prevent cascading failures
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}

	client := redis.NewClient(opts)

	// Fail fast: verify the connection immediately
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(initCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get retrieves a cached value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %q from cache: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.redisKey(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %q in cache: %w", key, err)
	}
	return nil
}

// Del removes a cached value.
func (c *RedisCache) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %q from cache: %w", key, err)
	}
	return nil
}

// Close closes the Redis client connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) redisKey(key string) string {
	return fmt.Sprintf("%s:%s", KeyPrefix, key)
}
