package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "feed:search:"

// Redis is a Store backed by a shared Redis instance, letting multiple
// service replicas share one memo table. Backend failures degrade to cache
// misses so the serving path never depends on Redis availability.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// NewRedis wraps an already-connected client as a Store.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[cache] redis get error (treated as miss): %v", err)
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, payload []byte) {
	if err := r.rdb.Set(ctx, keyPrefix+key, payload, r.ttl).Err(); err != nil {
		log.Printf("[cache] redis set error (entry dropped): %v", err)
	}
}
