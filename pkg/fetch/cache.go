package fetch

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const DefaultCacheTTL = 20 * time.Second

// ResponseCache holds raw upstream bodies for a short while so that several
// board entries hitting the same live feed in one pass share a request
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

type RedisCache struct {
	Cache  *cache.Cache[string]
	logger zerolog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &RedisCache{
		Cache:  cache.New[string](redisStore),
		logger: logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.Cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	return []byte(value), true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.Cache.Set(ctx, key, string(value)); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to store response in cache")
	}
}
