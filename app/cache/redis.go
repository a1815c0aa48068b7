package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "news"
	generationKey = keyPrefix + ":generation"
)

// RedisCache stores query results in Redis. Every key embeds the current
// generation, so Invalidate only has to bump the counter and stale entries
// expire on their own.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance at redisURL
// (redis://[user:password@]host:port/db).
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", opts.Addr, "ttl", ttl)

	return &RedisCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Fetch decodes the value cached for key in the given generation into dest.
// A value that no longer decodes is dropped and reported as a miss.
func (c *RedisCache) Fetch(ctx context.Context, generation int64, key string, dest any) (bool, error) {
	versioned := VersionedKey(generation, key)

	data, err := c.client.Get(ctx, versioned).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.client.Del(ctx, versioned)
		return false, nil
	}

	return true, nil
}

// Store caches value under key in the given generation for the configured TTL.
func (c *RedisCache) Store(ctx context.Context, generation int64, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, VersionedKey(generation, key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	return nil
}

// Invalidate makes every previously stored entry unreachable.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Generation returns the current cache generation, 0 before the first Invalidate.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get cache generation: %w", err)
	}
	return generation, nil
}

// GenerateKey builds a stable key for a query kind and its arguments.
func GenerateKey(kind string, args ...any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%s:%x", kind, hash[:8])
}

// VersionedKey scopes key to a cache generation.
func VersionedKey(generation int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, generation, key)
}
