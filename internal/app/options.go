package app

import (
	"time"

	workerpkg "github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/changelog/worker"
	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/logger"
)

// Option configures the Service.
type Option func(*Service)

// WithWorker attaches the background stream worker; Start launches it
// and Stop drains it.
func WithWorker(w *workerpkg.Worker) Option {
	return func(s *Service) {
		s.worker = w
	}
}

// WithDefaultTopK sets the view size invalidated after each write.
func WithDefaultTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.defaultTopK = k
		}
	}
}

// WithCacheTTL sets the lifetime of cached top-K views.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithWarmThreshold sets the ranking cardinality at or above which
// rehydration is skipped.
func WithWarmThreshold(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.warmThreshold = n
		}
	}
}

// WithRehydrateTopN sets how many players a cold start seeds from the
// system-of-record.
func WithRehydrateTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rehydrateTopN = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}
