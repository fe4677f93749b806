package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// summaryTTL bounds staleness if an invalidation is ever missed.
const summaryTTL = 10 * time.Minute

// RedisCache is a Redis-backed Cache for portfolio summaries.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisCache connects to the given Redis address.
func NewRedisCache(addr string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: rdb,
		ctx:    context.Background(),
	}
}

func (r *RedisCache) Get(key string) (string, bool) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(key string, value string) error {
	return r.client.Set(r.ctx, key, value, summaryTTL).Err()
}

func (r *RedisCache) Delete(key string) error {
	return r.client.Del(r.ctx, key).Err()
}
