package config

import (
	"os"
	"strconv"
	"time"

	"github.com/chunkmill/chunkmill/pkg/chunking"
)

type Config struct {
	Port string

	// Auth; empty disables bearer auth (local use).
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults, overridable per request.
	DefaultMaxChunkSize int
	DefaultMinChunkSize int
	DefaultOverlapSize  int
	DefaultStrategy     string

	// Result cache
	CacheCapacity int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("CHUNKMILL_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		DefaultMaxChunkSize: envInt("DEFAULT_MAX_CHUNK_SIZE", 1500),
		DefaultMinChunkSize: envInt("DEFAULT_MIN_CHUNK_SIZE", 100),
		DefaultOverlapSize:  envInt("DEFAULT_OVERLAP_SIZE", 200),
		DefaultStrategy:     envOr("DEFAULT_STRATEGY", "auto"),

		CacheCapacity: envInt("CACHE_CAPACITY", 256),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultMaxChunkSize <= 0 {
		cfg.DefaultMaxChunkSize = 1500
	}
	if cfg.DefaultMinChunkSize <= 0 {
		cfg.DefaultMinChunkSize = 100
	}
	if cfg.DefaultOverlapSize <= 0 {
		cfg.DefaultOverlapSize = 200
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = 256
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// ChunkDefaults builds the engine configuration from service defaults.
func (c Config) ChunkDefaults() chunking.Config {
	cfg := chunking.DefaultConfig()
	cfg.MaxChunkSize = c.DefaultMaxChunkSize
	cfg.MinChunkSize = c.DefaultMinChunkSize
	cfg.OverlapSize = c.DefaultOverlapSize
	if c.DefaultStrategy != "" && c.DefaultStrategy != chunking.StrategyAuto {
		cfg.StrategyOverride = c.DefaultStrategy
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
