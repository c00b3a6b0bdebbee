// Package app provides the leaderboard service: the public API boundary
// that orchestrates reads through the view cache and writes through the
// atomic ranking-store-plus-change-log unit.
package app

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	workerpkg "github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/changelog/worker"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/livestore"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/repository"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/score"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/viewcache"
	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/logger"
	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultTopK          = 10
	defaultCacheTTL      = 5 * time.Second
	defaultWarmThreshold = 100
	defaultRehydrateTopN = 1000
	workerStopTimeout    = 10 * time.Second
)

// Service implements the leaderboard API surface.
type Service struct {
	mu sync.Mutex

	live  livestore.Store
	cache *viewcache.Cache
	repo  repository.PlayerStore

	// Optional background drainer; nil when the host runs it elsewhere.
	worker *workerpkg.Worker

	defaultTopK   int
	cacheTTL      time.Duration
	warmThreshold int64
	rehydrateTopN int

	started      bool
	cancelWorker context.CancelFunc

	logger logger.Logger
}

// New constructs a Service over the live ranking tier and the
// system-of-record repository.
func New(live livestore.Store, repo repository.PlayerStore, opts ...Option) *Service {
	s := &Service{
		live:          live,
		repo:          repo,
		defaultTopK:   defaultTopK,
		cacheTTL:      defaultCacheTTL,
		warmThreshold: defaultWarmThreshold,
		rehydrateTopN: defaultRehydrateTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("leaderboard")
	}

	s.cache = viewcache.New(func(ctx context.Context, n int) ([]viewcache.Pair, error) {
		pairs, err := s.live.TopN(ctx, n)
		if err != nil {
			return nil, err
		}
		out := make([]viewcache.Pair, len(pairs))
		for i, p := range pairs {
			out[i] = viewcache.Pair{PlayerID: p.PlayerID, Score: p.Score}
		}
		return out, nil
	}, viewcache.WithTTL(s.cacheTTL))

	return s
}

// Start launches the background stream worker, if one was configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.worker != nil {
		workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.cancelWorker = cancel
		go s.worker.Run(workerCtx)
		s.logger.Info(ctx, "stream worker started",
			logger.String("consumer", s.worker.Consumer()),
		)
	}

	s.started = true
	return nil
}

// Stop shuts the stream worker down cooperatively. Unacknowledged
// change-log entries stay pending and are replayed on the next start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if s.cancelWorker != nil {
		s.cancelWorker()
		select {
		case <-s.worker.Done():
		case <-time.After(workerStopTimeout):
			s.logger.Warn(context.Background(), "stream worker stop timed out")
		}
	}

	s.started = false
}

// UpdateScore accepts a score update: the ranking store and the change
// log commit together, then the default cached view is invalidated.
// The call returns without waiting for system-of-record persistence.
func (s *Service) UpdateScore(ctx context.Context, playerID int64, newScore float64) error {
	if playerID <= 0 {
		return fmt.Errorf("%w: player id %d", ErrInvalidPlayerID, playerID)
	}
	if math.IsNaN(newScore) || math.IsInf(newScore, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidScore, newScore)
	}

	quantized := score.Quantize(newScore)
	if err := s.live.UpdateScore(ctx, playerID, quantized); err != nil {
		metrics.RecordScoreUpdateError()
		return fmt.Errorf("update score: %w", err)
	}
	metrics.RecordScoreUpdate()

	s.cache.Invalidate(s.defaultTopK)
	return nil
}

// TopPlayers returns the current top-K projection. Reads go through the
// coalescing view cache only; there is no bypass path.
func (s *Service) TopPlayers(ctx context.Context, topK int) ([]model.LeaderboardEntry, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
	}
	entries, err := s.cache.TopK(ctx, topK)
	if err != nil {
		return nil, fmt.Errorf("top players: %w", err)
	}
	return entries, nil
}

// Rehydrate seeds the ranking store from the system-of-record when the
// ranking cache is cold. Best effort: both paths work on an empty
// ranking store, so a failed or skipped rehydration only costs warmth.
func (s *Service) Rehydrate(ctx context.Context) error {
	count, err := s.live.Count(ctx)
	if err != nil {
		return fmt.Errorf("ranking cardinality: %w", err)
	}
	metrics.UpdateRankingSize(count)

	if count >= s.warmThreshold {
		s.logger.Info(ctx, "ranking store already warm",
			logger.Int64("count", count),
		)
		return nil
	}

	players, err := s.repo.GetTopPlayers(ctx, s.rehydrateTopN)
	if err != nil {
		return fmt.Errorf("load top players: %w", err)
	}
	if err := s.live.LoadSnapshot(ctx, players); err != nil {
		return fmt.Errorf("seed ranking store: %w", err)
	}

	metrics.UpdateRehydratedPlayers(len(players))
	s.logger.Info(ctx, "ranking store rehydrated",
		logger.Int("players", len(players)),
	)
	return nil
}
