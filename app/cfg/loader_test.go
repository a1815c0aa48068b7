package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// Version may be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	t.Setenv("TZ", "UTC")

	cfg, err := LoadArgs([]string{"--database-url", "news.db", "--feeds-file", "./feeds.txt", "--port", "3000",
		"--ingest-interval", "60", "--fetch-timeout", "30", "--max-limit", "100", "--cache-ttl", "60"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected configuration to be loaded")
	}

	if cfg.DatabaseURL != "news.db" {
		t.Errorf("Expected database URL 'news.db', got '%s'", cfg.DatabaseURL)
	}
	if cfg.IngestInterval != 60*time.Minute {
		t.Errorf("Expected ingest interval 60m, got %v", cfg.IngestInterval)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("Expected fetch timeout 30s, got %v", cfg.FetchTimeout)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("Expected cache TTL 1m, got %v", cfg.CacheTTL)
	}
	if cfg.Port != "3000" {
		t.Errorf("Expected port '3000', got '%s'", cfg.Port)
	}
	if cfg.DedupeBatch || cfg.FlushRemainder {
		t.Error("Expected batch dedup and remainder flush to be disabled by default")
	}
}

func TestFromRawValidation(t *testing.T) {
	valid := rawCfg{
		DatabaseURL:    "news.db",
		IngestInterval: 60,
		FetchTimeout:   30,
		MaxLimit:       100,
		CacheTTL:       60,
	}

	tests := []struct {
		name    string
		mutate  func(r *rawCfg)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *rawCfg) {}},
		{name: "missing database URL", mutate: func(r *rawCfg) { r.DatabaseURL = "" }, wantErr: true},
		{name: "zero interval", mutate: func(r *rawCfg) { r.IngestInterval = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(r *rawCfg) { r.FetchTimeout = -1 }, wantErr: true},
		{name: "zero max limit", mutate: func(r *rawCfg) { r.MaxLimit = 0 }, wantErr: true},
		{name: "negative cache TTL", mutate: func(r *rawCfg) { r.CacheTTL = -5 }, wantErr: true},
		{name: "zero cache TTL", mutate: func(r *rawCfg) { r.CacheTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := valid
			tt.mutate(&raw)

			_, err := fromRaw(raw)
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestApplyTimezone(t *testing.T) {
	original := time.Local
	defer func() { time.Local = original }()

	if err := applyTimezone("Europe/Berlin"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if time.Local.String() != "Europe/Berlin" {
		t.Errorf("Expected local timezone 'Europe/Berlin', got '%s'", time.Local.String())
	}

	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}
