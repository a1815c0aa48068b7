package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	c, err := NewRedisCache("redis://"+mr.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("Failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func TestGenerateKey(t *testing.T) {
	key1a := GenerateKey("search", "breaking", 10)
	key1b := GenerateKey("search", "breaking", 10)
	key2 := GenerateKey("search", "breaking", 20)
	key3 := GenerateKey("all", "breaking", 10)

	if key1a != key1b {
		t.Errorf("Expected same key for same arguments, got %s != %s", key1a, key1b)
	}

	if key1a == key2 {
		t.Errorf("Expected different keys for different limits, but got same: %s", key1a)
	}

	if !strings.HasPrefix(key1a, "search:") {
		t.Errorf("Expected key to start with search:, got %s", key1a)
	}

	if !strings.HasPrefix(key3, "all:") {
		t.Errorf("Expected key to start with all:, got %s", key3)
	}
}

func TestGenerateKeySeparatesArguments(t *testing.T) {
	// "a b" + "c" must not collide with "a" + "b c".
	if GenerateKey("search", "a b", "c") == GenerateKey("search", "a", "b c") {
		t.Error("Expected argument boundaries to affect the key")
	}
}

func TestVersionedKey(t *testing.T) {
	tests := []struct {
		generation int64
		key        string
		expected   string
	}{
		{0, "all:abc", "news:0:all:abc"},
		{42, "search:def", "news:42:search:def"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := VersionedKey(tt.generation, tt.key); got != tt.expected {
				t.Errorf("Expected key %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestNewRedisCacheInvalidURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url", time.Minute)
	if err == nil {
		t.Error("Expected error for invalid Redis URL")
	}
}

func TestRedisCacheStoreAndFetch(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)
	key := GenerateKey("all", 10)

	var dest []string
	found, err := c.Fetch(ctx, 0, key, &dest)
	if err != nil {
		t.Fatalf("Expected no error on miss, got %v", err)
	}
	if found {
		t.Fatal("Expected miss on empty cache")
	}

	if err := c.Store(ctx, 0, key, []string{"first", "second"}); err != nil {
		t.Fatalf("Failed to store value: %v", err)
	}

	found, err = c.Fetch(ctx, 0, key, &dest)
	if err != nil {
		t.Fatalf("Expected no error on hit, got %v", err)
	}
	if !found {
		t.Fatal("Expected hit after Store")
	}
	if len(dest) != 2 || dest[0] != "first" || dest[1] != "second" {
		t.Errorf("Expected [first second], got %v", dest)
	}

	if ttl := mr.TTL(VersionedKey(0, key)); ttl != time.Minute {
		t.Errorf("Expected TTL %v, got %v", time.Minute, ttl)
	}
}

func TestRedisCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedisCache(t)
	key := GenerateKey("search", "breaking", 10)

	generation, err := c.Generation(ctx)
	if err != nil {
		t.Fatalf("Failed to read generation: %v", err)
	}
	if generation != 0 {
		t.Errorf("Expected initial generation 0, got %d", generation)
	}

	if err := c.Store(ctx, generation, key, []string{"stale"}); err != nil {
		t.Fatalf("Failed to store value: %v", err)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Failed to invalidate: %v", err)
	}

	next, err := c.Generation(ctx)
	if err != nil {
		t.Fatalf("Failed to read generation: %v", err)
	}
	if next != generation+1 {
		t.Errorf("Expected generation %d after Invalidate, got %d", generation+1, next)
	}

	var dest []string
	found, err := c.Fetch(ctx, next, key, &dest)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if found {
		t.Errorf("Expected entry stored before Invalidate to be unreachable, got %v", dest)
	}
}

func TestRedisCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t)
	key := GenerateKey("all", 10)

	if err := mr.Set(VersionedKey(0, key), "{not json"); err != nil {
		t.Fatalf("Failed to seed corrupt entry: %v", err)
	}

	var dest []string
	found, err := c.Fetch(ctx, 0, key, &dest)
	if err != nil {
		t.Fatalf("Expected corrupt entry to be a miss, got error %v", err)
	}
	if found {
		t.Error("Expected corrupt entry to be a miss")
	}
	if mr.Exists(VersionedKey(0, key)) {
		t.Error("Expected corrupt entry to be deleted")
	}
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	c := NoopCache{}

	generation, err := c.Generation(ctx)
	if err != nil || generation != 0 {
		t.Errorf("Expected generation 0 and no error, got %d, %v", generation, err)
	}

	if err := c.Store(ctx, generation, "key", []string{"value"}); err != nil {
		t.Errorf("Expected no error from Store, got %v", err)
	}

	var dest []string
	found, err := c.Fetch(ctx, generation, "key", &dest)
	if err != nil {
		t.Errorf("Expected no error from Fetch, got %v", err)
	}
	if found {
		t.Error("Expected Fetch to always miss")
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Errorf("Expected no error from Invalidate, got %v", err)
	}
}
