package cfg

import "time"

type Cfg struct {
	// Database configuration
	DatabaseURL string

	// Ingestion configuration
	FeedsFile      string
	IngestInterval time.Duration
	FetchTimeout   time.Duration
	UserAgent      string
	DedupeBatch    bool
	FlushRemainder bool

	// HTTP configuration
	Port     string
	MaxLimit int

	// Cache configuration
	RedisURL string
	CacheTTL time.Duration

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
