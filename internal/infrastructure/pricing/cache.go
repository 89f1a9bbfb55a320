package pricing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"skinvault/pkg/logx"
)

const redisKeyPrefix = "skinvault:pricing:"

// Cache keeps raw upstream responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type MemoryCache struct {
	items *cache.Cache
}

func NewMemoryCache(cleanupInterval time.Duration) MemoryCache {
	return MemoryCache{items: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (c MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}

	b, ok := v.([]byte)

	return b, ok
}

func (c MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.items.Set(key, value, ttl)
}

// RedisCache shares responses between instances. Redis failures degrade to a
// cache miss.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) RedisCache {
	return RedisCache{client: client}
}

func (c RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger(ctx).Warn("pricing cache get failed", slog.String("key", key), logx.Error(err))
		}

		return nil, false
	}

	return b, true
}

func (c RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		logger(ctx).Warn("pricing cache set failed", slog.String("key", key), logx.Error(err))
	}
}
