package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	// Rows per INSERT statement; 7 parameters each stays well below SQLite's
	// and PostgreSQL's bind parameter limits.
	insertRowsPerStatement = 1000
	linksPerLookup         = 500
)

const newsColumns = `id, title, link, description, content, author, image, published, created_at`

// NewsRepository handles database operations for news items
type NewsRepository struct {
	db *DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// InsertMany stores items as one write: a single transaction of multi-row INSERTs.
func (r *NewsRepository) InsertMany(ctx context.Context, items []NewsItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(items); start += insertRowsPerStatement {
		end := min(start+insertRowsPerStatement, len(items))
		query, args := r.buildInsert(items[start:end])

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert news items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit news items: %w", err)
	}

	return nil
}

func (r *NewsRepository) buildInsert(items []NewsItem) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO news (title, link, description, content, author, image, published) VALUES `)

	args := make([]any, 0, len(items)*7)
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?, ?, ?, ?, ?, ?)")

		var published any
		if item.Published != nil {
			published = item.Published.UTC()
		}
		args = append(args, item.Title, nullString(item.Link), nullString(item.Description),
			nullString(item.Content), nullString(item.Author), nullString(item.Image), published)
	}

	return r.db.Rebind(b.String()), args
}

// ExistingLinks returns the subset of links already stored.
func (r *NewsRepository) ExistingLinks(ctx context.Context, links []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})

	for start := 0; start < len(links); start += linksPerLookup {
		chunk := links[start:min(start+linksPerLookup, len(links))]

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		query := r.db.Rebind(`SELECT DISTINCT link FROM news WHERE link IN (` + placeholders + `)`)

		args := make([]any, len(chunk))
		for i, link := range chunk {
			args[i] = link
		}

		if err := r.collectLinks(ctx, query, args, existing); err != nil {
			return nil, err
		}
	}

	return existing, nil
}

func (r *NewsRepository) collectLinks(ctx context.Context, query string, args []any, into map[string]struct{}) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to look up existing links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return fmt.Errorf("failed to scan link row: %w", err)
		}
		into[link] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating link rows: %w", err)
	}

	return nil
}

// SelectByID returns the item with the given id, at most limit rows.
func (r *NewsRepository) SelectByID(ctx context.Context, id int64, limit int) ([]Item, error) {
	items, err := r.queryItems(ctx, `
		SELECT `+newsColumns+`
		FROM news
		WHERE id = ?
		ORDER BY id
		LIMIT ?
	`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get news item by id: %w", err)
	}
	return items, nil
}

// SelectAll returns the most recently published items; undated items come last.
func (r *NewsRepository) SelectAll(ctx context.Context, limit int) ([]Item, error) {
	items, err := r.queryItems(ctx, `
		SELECT `+newsColumns+`
		FROM news
		ORDER BY published DESC NULLS LAST, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get news items: %w", err)
	}
	return items, nil
}

// Search matches query case-insensitively against title or description, newest id first.
// Both sides are folded by the same Unicode-aware function.
func (r *NewsRepository) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	pattern := "%" + escapeLike(query) + "%"
	lower := r.db.Lower()

	items, err := r.queryItems(ctx, `
		SELECT `+newsColumns+`
		FROM news
		WHERE `+lower+`(title) LIKE `+lower+`(?) ESCAPE '\'
		   OR `+lower+`(COALESCE(description, '')) LIKE `+lower+`(?) ESCAPE '\'
		ORDER BY id DESC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search news items: %w", err)
	}
	return items, nil
}

// Count returns the total number of stored items
func (r *NewsRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM news").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get news count: %w", err)
	}
	return count, nil
}

func (r *NewsRepository) queryItems(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		var link, description, content, author, image sql.NullString
		var published sql.NullTime

		err := rows.Scan(
			&item.ID, &item.Title, &link, &description, &content,
			&author, &image, &published, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}

		item.Link = stringPtr(link)
		item.Description = stringPtr(description)
		item.Content = stringPtr(content)
		item.Author = stringPtr(author)
		item.Image = stringPtr(image)
		if published.Valid {
			t := published.Time
			item.Published = &t
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating news rows: %w", err)
	}

	return items, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
