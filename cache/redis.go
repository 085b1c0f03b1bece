package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed translation cache for sharing translations
// between hosts. Expiry is delegated to Redis via per-key TTLs and size
// bounding to the server's maxmemory policy; the local size-bounded backend
// is SQLiteCache.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g. "redis://localhost:6379")
	TTL       time.Duration // Per-key TTL (0 = no expiration)
	KeyPrefix string        // Prefix for all keys (default "polyglot:")
}

// NewRedisCache creates a new Redis cache with the given configuration.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "polyglot:"
	}
	if ttl < 0 {
		ttl = 0
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(key string) (json.RawMessage, bool) {
	val, err := c.client.Get(context.Background(), c.keyPrefix+key).Result()
	if err != nil {
		return nil, false
	}

	raw, ok := decode(val)
	if !ok {
		_ = c.client.Del(context.Background(), c.keyPrefix+key).Err()
		return nil, false
	}

	return raw, true
}

// Set stores a value in Redis.
func (c *RedisCache) Set(key string, value any) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	return c.client.Set(context.Background(), c.keyPrefix+key, data, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
