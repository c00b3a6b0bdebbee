package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "127.0.0.1:6379")
				convey.So(cfg.WorkerBatchSize, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LB_ADDR", ":9090")
			_ = os.Setenv("LB_REDIS_ADDR", "redis:6379")
			_ = os.Setenv("LB_DB_PATH", "/var/lib/lb/players.db")
			_ = os.Setenv("LB_CACHE_TTL_MS", "2500")
			_ = os.Setenv("LB_WORKER_BATCH_SIZE", "50")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "redis:6379")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/var/lib/lb/players.db")
				convey.So(cfg.CacheTTLMS, convey.ShouldEqual, 2500)
				convey.So(cfg.WorkerBatchSize, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":7070"
redis_addr: "10.0.0.5:6379"
cache_ttl_ms: 1000
worker_block_ms: 500
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("LB_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "10.0.0.5:6379")
				convey.So(cfg.CacheTTLMS, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerBlockMS, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When a required value is blanked out", func() {
			clearConfigEnvVars()
			_ = os.Setenv("LB_REDIS_ADDR", "")
			defer clearConfigEnvVars()

			// Empty env value still unmarshals as empty string.
			_, err := config.Load(ctx)

			convey.Convey("Then validation should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"LB_CONFIG",
		"LB_ADDR",
		"LB_REDIS_ADDR",
		"LB_DB_PATH",
		"LB_CACHE_TTL_MS",
		"LB_DEFAULT_TOP_K",
		"LB_WARM_THRESHOLD",
		"LB_REHYDRATE_TOP_N",
		"LB_STREAM_MAX_LEN",
		"LB_WORKER_BATCH_SIZE",
		"LB_WORKER_BLOCK_MS",
		"LB_WORKER_BACKOFF_MS",
		"LB_LOG_LEVEL",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "lb-config-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp config: %v", err)
	}
	return f.Name()
}
