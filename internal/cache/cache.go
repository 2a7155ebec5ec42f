// Package cache provides a best-effort string cache in front of the external
// weather and currency services. Cache failures are logged and swallowed;
// they never fail a request.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rutero-ai/rutero/config"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Noop is the cache used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool) { return "", false }
func (Noop) Set(context.Context, string, string)        {}

// Redis caches entries with a fixed TTL.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewRedis(cfg config.CacheConfig) *Redis {
	return &Redis{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl:    cfg.TTL,
		logger: log.New(log.Writer(), "[CACHE] ", log.LstdFlags),
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Printf("get %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key, value string) {
	if err := r.rdb.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.logger.Printf("set %s: %v", key, err)
	}
}

func (r *Redis) Close() error { return r.rdb.Close() }

// FromConfig returns a Redis cache when enabled, otherwise a Noop.
func FromConfig(cfg config.CacheConfig) Cache {
	if !cfg.Enabled {
		return Noop{}
	}
	return NewRedis(cfg)
}
