// Package config reads the studio server configuration from REEL_*
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Store backends.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// DefaultStoreQuota matches the usual per-origin browser storage limit.
const DefaultStoreQuota = 5 << 20

type Config struct {
	HTTPAddr  string // REEL_HTTP_ADDR (default ":8080")
	GRPCAddr  string // REEL_GRPC_ADDR (optional, empty = no gRPC health server)
	NATSURL   string // REEL_NATS_URL (optional, empty = no events)
	AuthToken string // REEL_AUTH_TOKEN (optional, empty = auth disabled)

	// Durable store
	Store       string // REEL_STORE: file | memory | postgres (default "file")
	DataDir     string // REEL_DATA_DIR (default "$XDG_STATE_HOME/reelcast")
	DatabaseURL string // REEL_DATABASE_URL (required when REEL_STORE=postgres)
	StoreQuota  int64  // REEL_STORE_QUOTA bytes (default 5 MiB; 0 = unlimited)

	// Content generation
	GeminiBaseURL string        // REEL_GEMINI_BASE_URL (default Google endpoint)
	GeminiModel   string        // REEL_GEMINI_MODEL (default "gemini-2.5-flash")
	GeminiTimeout time.Duration // REEL_GEMINI_TIMEOUT (default 0 = no limit)
	FlowBaseURL   string        // REEL_FLOW_BASE_URL (default Flow project URL)

	// Logging
	LogFile  string     // REEL_LOG_FILE (optional, rotating file instead of stderr)
	LogLevel slog.Level // REEL_LOG_LEVEL (default "info")

	// Sync settings
	SyncInterval   time.Duration // REEL_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // REEL_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // REEL_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // REEL_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // REEL_SYNC_S3_KEY (default "reelcast/backup.jsonl")
	SyncGitRepo    string        // REEL_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // REEL_SYNC_GIT_FILE (default "reelcast.jsonl")
	SyncGitBranch  string        // REEL_SYNC_GIT_BRANCH (default "main")
}

// SyncEnabled reports whether a backup destination is configured and the
// interval is non-zero.
func (c *Config) SyncEnabled() bool {
	return c.SyncInterval > 0 && (c.SyncS3Bucket != "" || c.SyncGitRepo != "")
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:       envOrDefault("REEL_HTTP_ADDR", ":8080"),
		GRPCAddr:       os.Getenv("REEL_GRPC_ADDR"),
		NATSURL:        os.Getenv("REEL_NATS_URL"),
		AuthToken:      os.Getenv("REEL_AUTH_TOKEN"),
		Store:          envOrDefault("REEL_STORE", StoreFile),
		DataDir:        envOrDefault("REEL_DATA_DIR", defaultDataDir()),
		DatabaseURL:    os.Getenv("REEL_DATABASE_URL"),
		GeminiBaseURL:  os.Getenv("REEL_GEMINI_BASE_URL"),
		GeminiModel:    os.Getenv("REEL_GEMINI_MODEL"),
		FlowBaseURL:    os.Getenv("REEL_FLOW_BASE_URL"),
		LogFile:        os.Getenv("REEL_LOG_FILE"),
		SyncS3Bucket:   os.Getenv("REEL_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("REEL_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("REEL_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("REEL_SYNC_S3_KEY", "reelcast/backup.jsonl"),
		SyncGitRepo:    os.Getenv("REEL_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("REEL_SYNC_GIT_FILE", "reelcast.jsonl"),
		SyncGitBranch:  envOrDefault("REEL_SYNC_GIT_BRANCH", "main"),
	}

	switch c.Store {
	case StoreFile, StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("REEL_DATABASE_URL is required when REEL_STORE=postgres")
		}
	default:
		return nil, fmt.Errorf("REEL_STORE: unknown backend %q (want file, memory or postgres)", c.Store)
	}

	quota, err := strconv.ParseInt(envOrDefault("REEL_STORE_QUOTA", strconv.Itoa(DefaultStoreQuota)), 10, 64)
	if err != nil || quota < 0 {
		return nil, fmt.Errorf("REEL_STORE_QUOTA: want a non-negative byte count, got %q", os.Getenv("REEL_STORE_QUOTA"))
	}
	c.StoreQuota = quota

	if v := os.Getenv("REEL_GEMINI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REEL_GEMINI_TIMEOUT: %w", err)
		}
		c.GeminiTimeout = d
	}

	if err := c.LogLevel.UnmarshalText([]byte(envOrDefault("REEL_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("REEL_LOG_LEVEL: %w", err)
	}

	intervalStr := envOrDefault("REEL_SYNC_INTERVAL", "3m")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("REEL_SYNC_INTERVAL: %w", err)
	}
	c.SyncInterval = d

	return c, nil
}

// defaultDataDir follows the XDG state directory convention.
func defaultDataDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "reelcast")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "reelcast")
	}
	return "reelcast-data"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
