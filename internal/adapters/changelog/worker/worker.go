// Package worker runs the change-log consumer that drains score-change
// events into the system-of-record with at-least-once, batched,
// latest-write-wins semantics.
package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/changelog"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/batch"
	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/logger"
	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultBatchSize = 100
	defaultBlock     = 2 * time.Second
	defaultBackoff   = 5 * time.Second
)

// Persister is the slice of the player repository the worker needs.
type Persister interface {
	UpdatePlayerScores(ctx context.Context, updates map[int64]float64) error
}

// Worker is one consumer identity inside the change-log group. Multiple
// workers may share the group; the log partitions delivery across them.
type Worker struct {
	log      changelog.Log
	store    Persister
	consumer string

	batchSize int64
	block     time.Duration
	backoff   time.Duration

	done chan struct{}

	logger logger.Logger
}

// New creates a worker with configuration options.
func New(log changelog.Log, store Persister, opts ...Option) *Worker {
	w := &Worker{
		log:       log,
		store:     store,
		consumer:  defaultConsumerName(),
		batchSize: defaultBatchSize,
		block:     defaultBlock,
		backoff:   defaultBackoff,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("stream-worker")
	}
	return w
}

// defaultConsumerName derives a consumer identity that is stable across
// restarts on the same host, so the worker resumes its own pending set.
func defaultConsumerName() string {
	if host := os.Getenv("HOSTNAME"); host != "" {
		return "worker-" + host
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return "worker-" + host
	}
	return "worker-" + uuid.NewString()
}

// Consumer returns the worker's consumer identity.
func (w *Worker) Consumer() string {
	return w.consumer
}

// Done is closed when Run has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Run consumes the change log until ctx is canceled. Any error other
// than cooperative cancellation is logged, followed by a pause and a
// fresh cycle; the fresh cycle replays this consumer's unacknowledged
// entries before reading anything new.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		err := w.consume(ctx)
		if err == nil || ctx.Err() != nil {
			w.logger.Info(ctx, "stream worker stopped", logger.String("consumer", w.consumer))
			return
		}

		metrics.RecordWorkerError()
		w.logger.Error(ctx, "stream worker error; backing off",
			logger.String("consumer", w.consumer),
			logger.Duration("backoff", w.backoff),
			logger.Error(err),
		)
		select {
		case <-time.After(w.backoff):
		case <-ctx.Done():
			return
		}
	}
}

// consume runs one full cycle: group setup, crash recovery, then the
// steady-state blocking read loop. It returns nil only on cancellation.
func (w *Worker) consume(ctx context.Context) error {
	if err := w.log.EnsureGroup(ctx); err != nil {
		return err
	}

	if err := w.recoverPending(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := w.log.ReadNew(ctx, w.consumer, w.batchSize, w.block)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if len(msgs) == 0 {
			continue // block timeout; not an error
		}
		if _, err := w.processBatch(ctx, msgs); err != nil {
			return err
		}
	}
}

// recoverPending replays entries delivered to this consumer before a
// crash, in bounded batches, until its pending set is drained. A batch
// that acknowledges nothing is all poison; it stays pending for later
// redelivery rather than spinning here.
func (w *Worker) recoverPending(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		msgs, err := w.log.ReadPending(ctx, w.consumer, w.batchSize)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			return nil
		}

		metrics.RecordPendingRecovered(len(msgs))
		w.logger.Info(ctx, "recovered pending entries",
			logger.String("consumer", w.consumer),
			logger.Int("count", len(msgs)),
		)

		acked, err := w.processBatch(ctx, msgs)
		if err != nil {
			return err
		}
		if acked == 0 {
			return nil
		}
	}
}

// processBatch decodes, coalesces, persists and acknowledges one batch.
// Malformed entries are excluded from the apply-set and stay
// unacknowledged; nothing is acknowledged unless the bulk write commits.
func (w *Worker) processBatch(ctx context.Context, msgs []changelog.Message) (int, error) {
	metrics.RecordStreamBatch(len(msgs))

	entries := make([]batch.Entry, 0, len(msgs))
	for _, m := range msgs {
		entry, err := changelog.Decode(m)
		if err != nil {
			metrics.RecordStreamEntryMalformed()
			w.logger.Error(ctx, "skipping malformed entry; left unacknowledged",
				logger.String("id", m.ID),
				logger.Error(err),
			)
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	updates := batch.Coalesce(entries)

	start := time.Now()
	if err := w.store.UpdatePlayerScores(ctx, updates); err != nil {
		return 0, fmt.Errorf("persist batch of %d updates: %w", len(updates), err)
	}
	metrics.RecordPersistLatency(float64(time.Since(start).Milliseconds()))

	ids := batch.IDs(entries)
	if err := w.log.Ack(ctx, ids...); err != nil {
		// Persisted but unacked: redelivery reapplies the same values,
		// which the bulk upsert tolerates.
		return 0, fmt.Errorf("acknowledge batch: %w", err)
	}
	metrics.RecordStreamEntriesAcked(len(ids))

	w.logger.Debug(ctx, "batch processed",
		logger.Int("delivered", len(msgs)),
		logger.Int("persisted", len(updates)),
		logger.Int("acked", len(ids)),
	)
	return len(ids), nil
}
