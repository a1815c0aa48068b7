package api

import (
	"context"
	"time"

	"github.com/lysyi3m/rss-news/app/database"
	"github.com/lysyi3m/rss-news/app/news"
	"github.com/lysyi3m/rss-news/app/tasks"
)

type NewsServiceInterface interface {
	GetByID(ctx context.Context, id int64, limit int) []database.Item
	GetAll(ctx context.Context, limit int) []database.Item
	Search(ctx context.Context, query string, limit int) []database.Item
	Count(ctx context.Context) (int, error)
}

var _ NewsServiceInterface = (*news.Service)(nil)

type Handler struct {
	newsService NewsServiceInterface
	ingester    tasks.IngestRunner
	sourceCount int
	maxLimit    int
	version     string
}

// NewsItem is the JSON shape of a stored news item.
type NewsItem struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Link        *string    `json:"link"`
	Description *string    `json:"description"`
	Content     *string    `json:"content"`
	Author      *string    `json:"author"`
	Image       *string    `json:"image"`
	Published   *time.Time `json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
}

type NewsResponse struct {
	Items []NewsItem `json:"items"`
	Total int        `json:"total"`
}

type CreateResponse struct {
	Success    bool   `json:"success"`
	NewRecords bool   `json:"new_records"`
	Inserted   int    `json:"inserted"`
	Message    string `json:"message"`
}

func toNewsItems(items []database.Item) []NewsItem {
	out := make([]NewsItem, len(items))
	for i, item := range items {
		out[i] = NewsItem{
			ID:          item.ID,
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
			Author:      item.Author,
			Image:       item.Image,
			Published:   item.Published,
			CreatedAt:   item.CreatedAt,
		}
	}
	return out
}
