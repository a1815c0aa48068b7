package tasks

import "context"

// IngestRunner performs one complete ingestion run over every configured source.
type IngestRunner interface {
	Run(ctx context.Context) (RunResult, error)
}

// FeedFetcher downloads a source document.
type FeedFetcher interface {
	Run(ctx context.Context, url string) ([]byte, error)
}

// CacheInvalidator drops cached query results after new items are stored.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
