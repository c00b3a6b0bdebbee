package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LB_CONFIG is set
//  3. env (prefix LB_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LB_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: LB_ADDR, LB_REDIS_ADDR, LB_CACHE_TTL_MS, ...
	// Mapped to flat koanf keys; underscores preserved to match struct tags.
	envProvider := env.Provider("LB_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "lb_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("%w: redis_addr must not be empty", ErrInvalidConfig)
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if cfg.CacheTTLMS <= 0 {
		return nil, fmt.Errorf("%w: cache_ttl_ms must be positive", ErrInvalidConfig)
	}
	if cfg.WorkerBatchSize <= 0 {
		return nil, fmt.Errorf("%w: worker_batch_size must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
