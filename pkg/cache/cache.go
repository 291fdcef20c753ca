// Package cache provides a small TTL cache over Redis for hot public
// queries (featured posts, top-viewed posts). It is a read-side
// optimization only: every operation degrades to a miss when Redis is not
// configured or unreachable.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/config"
	"github.com/redis/go-redis/v9"
)

var (
	client *redis.Client
	ttl    time.Duration
)

// Init connects the package-level client. An empty Addr leaves caching
// disabled; callers never need to check.
func Init(cfg *config.RedisConfig) error {
	if cfg.Addr == "" {
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ttl = cfg.TTL

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client = nil
		return err
	}
	return nil
}

// Enabled reports whether a Redis client is configured.
func Enabled() bool {
	return client != nil
}

// GetJSON loads key into dest. Returns false on miss, disabled cache, or
// any Redis/unmarshal error.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON stores value under key with the configured TTL. Failures are
// ignored; the cache is best-effort.
func SetJSON(ctx context.Context, key string, value interface{}) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Invalidate removes keys after a mutating operation.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}
