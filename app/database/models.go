package database

import (
	"time"
)

// NewsItem is a normalized record on its way into the news table.
type NewsItem struct {
	Title       string
	Link        *string
	Description *string
	Content     *string
	Author      *string
	Image       *string
	Published   *time.Time
}

// Item is a stored news row.
type Item struct {
	ID          int64
	Title       string
	Link        *string
	Description *string
	Content     *string
	Author      *string
	Image       *string
	Published   *time.Time
	CreatedAt   time.Time
}
