package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-news/app/database"
	"github.com/lysyi3m/rss-news/app/tasks"
)

const defaultLimit = 10

func NewHandler(newsService NewsServiceInterface, ingester tasks.IngestRunner,
	sourceCount, maxLimit int, version string) *Handler {
	if maxLimit < 1 {
		maxLimit = defaultLimit
	}
	return &Handler{
		newsService: newsService,
		ingester:    ingester,
		sourceCount: sourceCount,
		maxLimit:    maxLimit,
		version:     version,
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "RSS News",
		"version":     h.version,
		"description": "News feed harvester with normalization, deduplication, and search",
		"endpoints": map[string]string{
			"health": "/health",
			"news":   "/news?id=<id>&query=<text>&limit=<n>",
			"create": "/news/create",
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"sources":   h.sourceCount,
	}

	if count, err := h.newsService.Count(c.Request.Context()); err == nil {
		health["items"] = count
	} else {
		slog.Error("Database error", "operation", "count", "error", err)
	}

	c.JSON(http.StatusOK, health)
}

// GetNews serves /news. id selects a single item, query searches titles and
// descriptions, otherwise the latest items are returned.
func (h *Handler) GetNews(c *gin.Context) {
	ctx := c.Request.Context()
	limit := h.parseLimit(c.Query("limit"))

	if rawID := c.Query("id"); rawID != "" {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
			return
		}
		h.respondItems(c, h.newsService.GetByID(ctx, id, limit))
		return
	}

	if query := strings.TrimSpace(c.Query("query")); query != "" {
		h.respondItems(c, h.newsService.Search(ctx, query, limit))
		return
	}

	h.respondItems(c, h.newsService.GetAll(ctx, limit))
}

// CreateNews runs one ingestion synchronously and reports whether anything new was found.
func (h *Handler) CreateNews(c *gin.Context) {
	task := tasks.NewIngestTask(tasks.TriggerManual, h.ingester)
	task.Start()

	err := task.Execute(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		slog.Error("Ingestion run finished with errors", "id", task.GetID(), "error", err)
	}

	result := task.Result()
	response := CreateResponse{
		Success:    err == nil,
		NewRecords: result.NewRecords(),
		Inserted:   result.Write.Written,
	}

	if response.NewRecords {
		response.Message = fmt.Sprintf("Inserted %d new records", result.Write.Written)
	} else {
		response.Message = "No new records"
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) respondItems(c *gin.Context, items []database.Item) {
	c.JSON(http.StatusOK, NewsResponse{
		Items: toNewsItems(items),
		Total: len(items),
	})
}

func (h *Handler) parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return min(limit, h.maxLimit)
}
