package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/rss-news/app/database"
	"github.com/lysyi3m/rss-news/app/feed"
)

// RunResult summarizes one ingestion run.
type RunResult struct {
	Sources       int
	FailedSources int
	DateFailures  int
	Entries       int
	Untitled      int
	Filtered      int
	Duplicates    int
	Write         WriteReport
}

// NewRecords reports whether the run had anything to write.
func (r RunResult) NewRecords() bool {
	return !r.Write.NoNewRecords
}

// Ingester runs parse, normalize, filter, dedupe and write over all sources.
type Ingester struct {
	sources     []feed.Source
	fetcher     FeedFetcher
	parser      *feed.Parser
	filterer    *feed.Filterer
	itemRepo    database.ItemRepository
	writer      *BatchWriter
	invalidator CacheInvalidator
	dedupeBatch bool
}

var _ IngestRunner = (*Ingester)(nil)

func NewIngester(sources []feed.Source, fetcher FeedFetcher, parser *feed.Parser, filterer *feed.Filterer,
	itemRepo database.ItemRepository, writer *BatchWriter, invalidator CacheInvalidator, dedupeBatch bool) *Ingester {
	return &Ingester{
		sources:     sources,
		fetcher:     fetcher,
		parser:      parser,
		filterer:    filterer,
		itemRepo:    itemRepo,
		writer:      writer,
		invalidator: invalidator,
		dedupeBatch: dedupeBatch,
	}
}

// Run performs one ingestion run. Fetch and parse failures only skip the
// affected source. An unresolvable date abandons that source's entries and is
// returned in the joined error along with any store failures.
func (in *Ingester) Run(ctx context.Context) (RunResult, error) {
	result := RunResult{Sources: len(in.sources)}
	var errs []error
	var collected []feed.Record

	for _, source := range in.sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		records, err := in.collect(ctx, source, &result)
		if err != nil {
			if feed.IsDateError(err) {
				result.DateFailures++
				slog.Error("Unrecognized date, source skipped for this run", "feed", source.Name, "error", err)
				errs = append(errs, fmt.Errorf("feed %s: %w", source.Name, err))
			} else {
				result.FailedSources++
				slog.Warn("Failed to read feed", "feed", source.Name, "url", source.URL, "error", err)
			}
			continue
		}

		collected = append(collected, records...)
	}

	existing, err := in.itemRepo.ExistingLinks(ctx, feed.Links(collected))
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to look up existing links: %w", err))
		return result, errors.Join(errs...)
	}

	fresh := feed.Dedupe(collected, existing)
	if in.dedupeBatch {
		fresh = feed.DedupeWithinBatch(fresh)
	}
	result.Duplicates = len(collected) - len(fresh)

	report, err := in.writer.Write(ctx, fresh)
	result.Write = report
	if err != nil {
		errs = append(errs, err)
	}

	if report.Written > 0 && in.invalidator != nil {
		if err := in.invalidator.Invalidate(ctx); err != nil {
			slog.Warn("Failed to invalidate query cache", "error", err)
		}
	}

	return result, errors.Join(errs...)
}

func (in *Ingester) collect(ctx context.Context, source feed.Source, result *RunResult) ([]feed.Record, error) {
	data, err := in.fetcher.Run(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	entries, err := in.parser.Run(data)
	if err != nil {
		return nil, err
	}
	result.Entries += len(entries)

	records, untitled, err := feed.NormalizeEntries(entries)
	result.Untitled += untitled
	if err != nil {
		return nil, err
	}

	kept := in.filterer.Run(records, source)
	result.Filtered += len(records) - len(kept)

	slog.Debug("Feed read", "feed", source.Name, "entries", len(entries), "kept", len(kept))
	return kept, nil
}

type IngestTask struct {
	Task
	ingester IngestRunner
	result   RunResult
}

func NewIngestTask(trigger string, ingester IngestRunner) *IngestTask {
	return &IngestTask{
		Task:     NewTask(TaskTypeIngest, trigger),
		ingester: ingester,
	}
}

func (t *IngestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.ingester.Run(ctx)
	t.result = result

	slog.Info("Task completed",
		"type", t.GetType(),
		"trigger", t.Trigger,
		"duration", t.GetDuration(),
		"sources", result.Sources,
		"failed_sources", result.FailedSources,
		"date_failures", result.DateFailures,
		"entries", result.Entries,
		"filtered", result.Filtered,
		"duplicates", result.Duplicates,
		"written", result.Write.Written,
		"unflushed", result.Write.Unflushed)

	return err
}

// Result returns the summary of the last Execute call.
func (t *IngestTask) Result() RunResult {
	return t.result
}
