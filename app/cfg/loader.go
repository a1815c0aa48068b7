package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"Store connection string (postgres://... or a SQLite path)" required:"true"`

	// Ingestion configuration
	FeedsFile      string `long:"feeds-file" env:"FEEDS_FILE" default:"./feeds.txt" description:"Feed source list (one URL per line, or .yml)"`
	IngestInterval int    `long:"ingest-interval" env:"INGEST_INTERVAL" default:"60" description:"Ingestion interval in minutes"`
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Feed download timeout in seconds"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"RSS News/1.0" description:"User agent string for HTTP requests"`
	DedupeBatch    bool   `long:"dedupe-batch" env:"DEDUPE_BATCH" description:"Also drop repeated links inside a single ingestion run"`
	FlushRemainder bool   `long:"flush-remainder" env:"FLUSH_REMAINDER" description:"Write records left over after the eighth batch"`

	// HTTP configuration
	Port     string `long:"port" env:"PORT" default:"3000" description:"HTTP server port"`
	MaxLimit int    `long:"max-limit" env:"MAX_LIMIT" default:"100" description:"Upper bound for the limit query parameter"`

	// Cache configuration
	RedisURL string `long:"redis-url" env:"REDIS_URL" description:"Redis URL for the query cache (optional)"`
	CacheTTL int    `long:"cache-ttl" env:"CACHE_TTL" default:"60" description:"Query cache TTL in seconds"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps without an offset (e.g., UTC, Europe/Berlin)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses the given arguments instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	// .env is optional
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func fromRaw(raw rawCfg) (*Cfg, error) {
	if raw.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if raw.IngestInterval <= 0 {
		return nil, fmt.Errorf("ingest interval must be positive, got %d", raw.IngestInterval)
	}
	if raw.FetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive, got %d", raw.FetchTimeout)
	}
	if raw.MaxLimit <= 0 {
		return nil, fmt.Errorf("max limit must be positive, got %d", raw.MaxLimit)
	}
	if raw.CacheTTL < 0 {
		return nil, fmt.Errorf("cache TTL must be non-negative, got %d", raw.CacheTTL)
	}

	return &Cfg{
		DatabaseURL:    raw.DatabaseURL,
		FeedsFile:      raw.FeedsFile,
		IngestInterval: time.Duration(raw.IngestInterval) * time.Minute,
		FetchTimeout:   time.Duration(raw.FetchTimeout) * time.Second,
		UserAgent:      raw.UserAgent,
		DedupeBatch:    raw.DedupeBatch,
		FlushRemainder: raw.FlushRemainder,
		Port:           raw.Port,
		MaxLimit:       raw.MaxLimit,
		RedisURL:       raw.RedisURL,
		CacheTTL:       time.Duration(raw.CacheTTL) * time.Second,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
