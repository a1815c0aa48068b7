package cache

import "context"

// CacheInterface defines the read-through cache used by the query service.
// Callers read the generation once and pass it to both Fetch and Store, so a
// value loaded before an Invalidate is never stored under the newer generation.
// Fetch reports a miss with false and a nil error.
type CacheInterface interface {
	Generation(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, generation int64, key string, dest any) (bool, error)
	Store(ctx context.Context, generation int64, key string, value any) error
	Invalidate(ctx context.Context) error
	Close() error
}

var (
	_ CacheInterface = (*RedisCache)(nil)
	_ CacheInterface = NoopCache{}
)
