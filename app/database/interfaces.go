package database

import "context"

// ItemRepository is the store contract used by the ingestion pipeline and the
// query service. Implementations must be safe for concurrent use.
type ItemRepository interface {
	InsertMany(ctx context.Context, items []NewsItem) error
	ExistingLinks(ctx context.Context, links []string) (map[string]struct{}, error)

	SelectByID(ctx context.Context, id int64, limit int) ([]Item, error)
	SelectAll(ctx context.Context, limit int) ([]Item, error)
	Search(ctx context.Context, query string, limit int) ([]Item, error)
	Count(ctx context.Context) (int, error)
}

var _ ItemRepository = (*NewsRepository)(nil)
