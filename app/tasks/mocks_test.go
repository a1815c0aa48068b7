package tasks

import (
	"context"
	"errors"
	"sync"

	"github.com/lysyi3m/rss-news/app/database"
)

// MockItemRepository records every InsertMany call in memory.
type MockItemRepository struct {
	mu          sync.Mutex
	calls       [][]database.NewsItem
	existing    map[string]struct{}
	failOnCalls map[int]bool
	lookupErr   error
}

var _ database.ItemRepository = (*MockItemRepository)(nil)

func (m *MockItemRepository) InsertMany(ctx context.Context, items []database.NewsItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, items)
	if m.failOnCalls[len(m.calls)] {
		return errors.New("mock insert failure")
	}
	return nil
}

func (m *MockItemRepository) ExistingLinks(ctx context.Context, links []string) (map[string]struct{}, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	found := make(map[string]struct{})
	for _, link := range links {
		if _, ok := m.existing[link]; ok {
			found[link] = struct{}{}
		}
	}
	return found, nil
}

func (m *MockItemRepository) SelectByID(ctx context.Context, id int64, limit int) ([]database.Item, error) {
	return nil, nil
}

func (m *MockItemRepository) SelectAll(ctx context.Context, limit int) ([]database.Item, error) {
	return nil, nil
}

func (m *MockItemRepository) Search(ctx context.Context, query string, limit int) ([]database.Item, error) {
	return nil, nil
}

func (m *MockItemRepository) Count(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *MockItemRepository) insertedTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var titles []string
	for _, call := range m.calls {
		for _, item := range call {
			titles = append(titles, item.Title)
		}
	}
	return titles
}

func (m *MockItemRepository) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
