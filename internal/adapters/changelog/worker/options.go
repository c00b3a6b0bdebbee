package worker

import (
	"time"

	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithConsumer sets the consumer identity inside the group. It must be
// stable across restarts on the same host and unique across hosts.
func WithConsumer(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.consumer = name
		}
	}
}

// WithBatchSize bounds one change-log read.
func WithBatchSize(n int64) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// WithBlock sets the blocking-read timeout; shorter means faster
// response to cancellation, longer means less polling.
func WithBlock(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.block = d
		}
	}
}

// WithBackoff sets the pause after a loop error.
func WithBackoff(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.backoff = d
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}
