package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "locwalk:"

type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

type RedisConfig struct {
	URL       string        // e.g. redis://localhost:6379/0
	TTL       time.Duration // 0 = no expiration
	KeyPrefix string
}

// NewRedisCache connects to cfg.URL and pings the server.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{client: client, ttl: ttl, keyPrefix: keyPrefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		// redis.Nil and connection failures both fall back to the backend.
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ TranslationCache = (*RedisCache)(nil)
