package news

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/rss-news/app/cache"
	"github.com/lysyi3m/rss-news/app/database"
)

// Service answers news queries. Store failures are logged and turned into
// empty results; callers never see them.
type Service struct {
	itemRepo database.ItemRepository
	cache    cache.CacheInterface
}

func NewService(itemRepo database.ItemRepository, c cache.CacheInterface) *Service {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &Service{
		itemRepo: itemRepo,
		cache:    c,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64, limit int) []database.Item {
	return s.readThrough(ctx, "get_by_id", cache.GenerateKey("id", id, limit), func() ([]database.Item, error) {
		return s.itemRepo.SelectByID(ctx, id, limit)
	})
}

// GetAll returns the latest items, most recently published first.
func (s *Service) GetAll(ctx context.Context, limit int) []database.Item {
	return s.readThrough(ctx, "get_all", cache.GenerateKey("all", limit), func() ([]database.Item, error) {
		return s.itemRepo.SelectAll(ctx, limit)
	})
}

func (s *Service) Search(ctx context.Context, query string, limit int) []database.Item {
	return s.readThrough(ctx, "search", cache.GenerateKey("search", query, limit), func() ([]database.Item, error) {
		return s.itemRepo.Search(ctx, query, limit)
	})
}

// Count returns the number of stored items.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.itemRepo.Count(ctx)
}

func (s *Service) readThrough(ctx context.Context, operation, key string, load func() ([]database.Item, error)) []database.Item {
	generation, err := s.cache.Generation(ctx)
	cacheOK := err == nil
	if !cacheOK {
		slog.Warn("Cache read failed", "operation", operation, "error", err)
	}

	var items []database.Item
	if cacheOK {
		found, err := s.cache.Fetch(ctx, generation, key, &items)
		if err != nil {
			slog.Warn("Cache read failed", "operation", operation, "error", err)
		}
		if found {
			return items
		}
	}

	items, err = load()
	if err != nil {
		slog.Error("Database error", "operation", operation, "error", err)
		return []database.Item{}
	}

	if cacheOK {
		if err := s.cache.Store(ctx, generation, key, items); err != nil {
			slog.Warn("Cache write failed", "operation", operation, "error", err)
		}
	}

	return items
}
