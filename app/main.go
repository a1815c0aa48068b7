package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-news/app/api"
	"github.com/lysyi3m/rss-news/app/cache"
	"github.com/lysyi3m/rss-news/app/cfg"
	"github.com/lysyi3m/rss-news/app/database"
	"github.com/lysyi3m/rss-news/app/feed"
	"github.com/lysyi3m/rss-news/app/news"
	"github.com/lysyi3m/rss-news/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting RSS News server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DatabaseURL)
	if err != nil {
		fatal("Failed to connect to database", err)
	}
	defer db.Close()
	slog.Info("Connected to database", "dialect", db.Dialect)

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		fatal("Failed to run migrations", err)
	}
	slog.Info("Migrations applied", "version", version, "dirty", dirty)

	sources, err := feed.LoadSources(appCfg.FeedsFile)
	if err != nil {
		fatal("Failed to load feed sources", err)
	}
	slog.Info("Loaded feed sources", "file", appCfg.FeedsFile, "count", len(sources))

	var queryCache cache.CacheInterface = cache.NoopCache{}
	if appCfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(appCfg.RedisURL, appCfg.CacheTTL)
		if err != nil {
			slog.Warn("Query cache disabled", "error", err)
		} else {
			queryCache = redisCache
		}
	}
	defer queryCache.Close()

	itemRepo := database.NewNewsRepository(db)

	ingester := tasks.NewIngester(
		sources,
		feed.NewFetcher(appCfg.FetchTimeout, appCfg.UserAgent),
		feed.NewParser(),
		feed.NewFilterer(),
		itemRepo,
		tasks.NewBatchWriter(itemRepo, appCfg.FlushRemainder),
		queryCache,
		appCfg.DedupeBatch,
	)

	scheduler := tasks.NewScheduler(ingester, appCfg.IngestInterval, 1)
	scheduler.Start()
	slog.Info("Background scheduler started", "interval", appCfg.IngestInterval)

	newsService := news.NewService(itemRepo, queryCache)
	apiHandler := api.NewHandler(newsService, ingester, len(sources), appCfg.MaxLimit, appCfg.Version)
	server := api.NewServer(apiHandler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	scheduler.Stop()
	slog.Info("Background scheduler stopped")

	slog.Info("RSS News server shutdown complete")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
