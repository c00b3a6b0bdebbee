package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/changelog"
	streamworker "github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/changelog/worker"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/http/api"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/livestore"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/repository"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/app"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/config"
	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Two Redis clients: one for request-path commands, one dedicated to
	// the worker so its blocking stream reads never starve API traffic.
	apiClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer apiClient.Close()
	workerClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer workerClient.Close()

	if err := apiClient.Ping(ctx).Err(); err != nil {
		log.Error(ctx, "redis unreachable", logger.String("addr", cfg.RedisAddr), logger.Error(err))
		return
	}

	repo, err := repository.Open(cfg.DBPath)
	if err != nil {
		log.Error(ctx, "failed to open system-of-record", logger.String("path", cfg.DBPath), logger.Error(err))
		return
	}
	defer repo.Close()

	live := livestore.NewRedisStore(apiClient,
		livestore.WithStreamMaxLen(cfg.StreamMaxLen),
	)
	chlog := changelog.NewRedisLog(workerClient)
	worker := streamworker.New(chlog, repo,
		streamworker.WithBatchSize(cfg.WorkerBatchSize),
		streamworker.WithBlock(time.Duration(cfg.WorkerBlockMS)*time.Millisecond),
		streamworker.WithBackoff(time.Duration(cfg.WorkerBackoffMS)*time.Millisecond),
	)

	svc := app.New(live, repo,
		app.WithLogger(log),
		app.WithWorker(worker),
		app.WithDefaultTopK(cfg.DefaultTopK),
		app.WithCacheTTL(time.Duration(cfg.CacheTTLMS)*time.Millisecond),
		app.WithWarmThreshold(cfg.WarmThreshold),
		app.WithRehydrateTopN(cfg.RehydrateTopN),
	)

	// Seed the ranking store from the system-of-record if it is cold.
	// Best effort; an empty ranking store still serves correctly.
	if err := svc.Rehydrate(ctx); err != nil {
		log.Warn(ctx, "rehydration failed; continuing cold", logger.Error(err))
	}

	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
