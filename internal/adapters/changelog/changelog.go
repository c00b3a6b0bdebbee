// Package changelog defines the durable change-log contract: a capped,
// append-only stream of score-change events read through a consumer
// group with per-consumer pending tracking.
//
// Appending happens on the write path as half of the atomic unit owned
// by the livestore adapter; this package owns the consumer side plus the
// stream's wire constants shared by both.
package changelog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/batch"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
)

// Wire constants shared by the producer and consumer sides.
const (
	// StreamName is the capped Redis stream of score-change events.
	StreamName = "score-events"

	// GroupName is the consumer group draining the stream into the
	// system-of-record.
	GroupName = "score-sync"

	// FieldPlayerID and FieldScore are the entry field names.
	FieldPlayerID = "pid"
	FieldScore    = "score"
)

// Message is one raw change-log entry as delivered by the backend.
type Message struct {
	// ID is the monotonic stream position, also used for acknowledgment.
	ID string

	// Fields holds the entry payload.
	Fields map[string]any
}

// Log is the consumer-side contract of the change log.
type Log interface {
	// EnsureGroup idempotently creates the consumer group; an already
	// existing group is not an error.
	EnsureGroup(ctx context.Context) error

	// ReadNew blocks up to block waiting for entries not yet delivered
	// to the group. An empty result after the timeout is not an error.
	ReadNew(ctx context.Context, consumer string, count int64, block time.Duration) ([]Message, error)

	// ReadPending returns entries previously delivered to this consumer
	// but never acknowledged, from the start of its pending set.
	ReadPending(ctx context.Context, consumer string, count int64) ([]Message, error)

	// Ack acknowledges entries by id after durable persistence.
	Ack(ctx context.Context, ids ...string) error
}

// Decode turns a raw message into a typed change-event. Failures are
// scoped to the single entry so one poison message never discards a
// whole batch.
func Decode(m Message) (batch.Entry, error) {
	pid, err := fieldInt64(m, FieldPlayerID)
	if err != nil {
		return batch.Entry{}, err
	}
	newScore, err := fieldFloat64(m, FieldScore)
	if err != nil {
		return batch.Entry{}, err
	}
	return batch.Entry{
		ID:     m.ID,
		Update: model.ScoreUpdate{PlayerID: pid, NewScore: newScore},
	}, nil
}

func fieldString(m Message, name string) (string, error) {
	raw, ok := m.Fields[name]
	if !ok {
		return "", fmt.Errorf("%w: entry %s missing field %q", ErrMalformedEntry, m.ID, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: entry %s field %q is %T, not string", ErrMalformedEntry, m.ID, name, raw)
	}
	return s, nil
}

func fieldInt64(m Message, name string) (int64, error) {
	s, err := fieldString(m, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: entry %s field %q: %v", ErrMalformedEntry, m.ID, name, err)
	}
	return v, nil
}

func fieldFloat64(m Message, name string) (float64, error) {
	s, err := fieldString(m, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: entry %s field %q: %v", ErrMalformedEntry, m.ID, name, err)
	}
	return v, nil
}
