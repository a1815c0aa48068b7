package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-news/app/database"
	"github.com/lysyi3m/rss-news/app/feed"
)

// batchSlices is the number of write slots a single Write call uses.
const batchSlices = 8

// WriteReport describes what one Write call did.
type WriteReport struct {
	NoNewRecords bool
	Batches      int
	Written      int
	Failed       int
	Unflushed    int
}

type BatchWriter struct {
	itemRepo       database.ItemRepository
	flushRemainder bool
}

func NewBatchWriter(itemRepo database.ItemRepository, flushRemainder bool) *BatchWriter {
	return &BatchWriter{
		itemRepo:       itemRepo,
		flushRemainder: flushRemainder,
	}
}

// Write persists records in at most eight contiguous batches of len(records)/8,
// in input order. A failed batch is logged and the remaining batches are still
// written; the returned error joins every batch failure.
//
// Records left over after the eighth slot (len(records)%8 of them when
// len(records) >= 8) are counted as Unflushed and only written when the writer
// was built with flushRemainder.
func (w *BatchWriter) Write(ctx context.Context, records []feed.Record) (WriteReport, error) {
	if len(records) == 0 {
		return WriteReport{NoNewRecords: true}, nil
	}

	var report WriteReport
	var errs []error

	chunk := len(records) / batchSlices
	remaining := records

	for i := 0; i < batchSlices; i++ {
		if chunk > len(remaining) {
			errs = w.writeBatch(ctx, remaining, &report, errs)
			remaining = nil
			break
		}

		batch := remaining[:chunk]
		remaining = remaining[chunk:]

		if len(batch) == 0 {
			continue
		}
		errs = w.writeBatch(ctx, batch, &report, errs)
	}

	if len(remaining) > 0 {
		if w.flushRemainder {
			errs = w.writeBatch(ctx, remaining, &report, errs)
		} else {
			report.Unflushed = len(remaining)
			slog.Warn("Records left unwritten after final batch", "unflushed", report.Unflushed, "total", len(records))
		}
	}

	return report, errors.Join(errs...)
}

func (w *BatchWriter) writeBatch(ctx context.Context, batch []feed.Record, report *WriteReport, errs []error) []error {
	report.Batches++

	if err := w.itemRepo.InsertMany(ctx, toNewsItems(batch)); err != nil {
		report.Failed += len(batch)
		slog.Error("Batch write failed", "batch", report.Batches, "size", len(batch), "error", err)
		return append(errs, fmt.Errorf("batch %d: %w", report.Batches, err))
	}

	report.Written += len(batch)
	slog.Debug("Batch written", "batch", report.Batches, "size", len(batch))
	return errs
}

func toNewsItems(records []feed.Record) []database.NewsItem {
	items := make([]database.NewsItem, len(records))
	for i, r := range records {
		items[i] = database.NewsItem{
			Title:       r.Title,
			Link:        r.Link,
			Description: r.Description,
			Content:     r.Content,
			Author:      r.Author,
			Image:       r.Image,
			Published:   r.Published,
		}
	}
	return items
}
