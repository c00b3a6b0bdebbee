// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RedisAddr is the ranking store / change log backend, e.g. "127.0.0.1:6379".
	RedisAddr string `koanf:"redis_addr"`

	// DBPath is the SQLite system-of-record file path.
	DBPath string `koanf:"db_path"`

	// CacheTTLMS bounds staleness of cached top-K views.
	CacheTTLMS int `koanf:"cache_ttl_ms"`

	// DefaultTopK is the view invalidated after every accepted write.
	DefaultTopK int `koanf:"default_top_k"`

	// WarmThreshold is the ranking-store cardinality above which
	// rehydration is skipped.
	WarmThreshold int64 `koanf:"warm_threshold"`

	// RehydrateTopN is how many players rehydration loads from the
	// system-of-record.
	RehydrateTopN int `koanf:"rehydrate_top_n"`

	// StreamMaxLen caps the change log (approximate trim).
	StreamMaxLen int64 `koanf:"stream_max_len"`

	// WorkerBatchSize bounds one change-log read.
	WorkerBatchSize int64 `koanf:"worker_batch_size"`

	// WorkerBlockMS is the blocking-read timeout of the consumer worker.
	WorkerBlockMS int `koanf:"worker_block_ms"`

	// WorkerBackoffMS is the pause after a worker loop error.
	WorkerBackoffMS int `koanf:"worker_backoff_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		RedisAddr:       "127.0.0.1:6379",
		DBPath:          "leaderboard.db",
		CacheTTLMS:      5000,
		DefaultTopK:     10,
		WarmThreshold:   100,
		RehydrateTopN:   1000,
		StreamMaxLen:    1_000_000,
		WorkerBatchSize: 100,
		WorkerBlockMS:   2000,
		WorkerBackoffMS: 5000,
	}
}
