package cache

import "context"

// NoopCache is used when no Redis URL is configured. Every Fetch is a miss.
type NoopCache struct{}

func (NoopCache) Generation(ctx context.Context) (int64, error) {
	return 0, nil
}

func (NoopCache) Fetch(ctx context.Context, generation int64, key string, dest any) (bool, error) {
	return false, nil
}

func (NoopCache) Store(ctx context.Context, generation int64, key string, value any) error {
	return nil
}

func (NoopCache) Invalidate(ctx context.Context) error {
	return nil
}

func (NoopCache) Close() error {
	return nil
}
