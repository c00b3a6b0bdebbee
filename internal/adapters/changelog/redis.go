package changelog

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisLog implements Log on a Redis stream consumer group.
//
// Blocking reads tie up a connection for the whole block window, so the
// worker is handed a dedicated client rather than sharing the service's.
type RedisLog struct {
	client *redis.Client
	stream string
	group  string
}

// NewRedisLog creates a change-log reader over the given client.
func NewRedisLog(client *redis.Client, opts ...Option) *RedisLog {
	l := &RedisLog{
		client: client,
		stream: StreamName,
		group:  GroupName,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// EnsureGroup creates the consumer group from the stream's beginning,
// creating the stream itself when absent. BUSYGROUP means the group
// survived a previous run and is expected on every restart but the first.
func (l *RedisLog) EnsureGroup(ctx context.Context) error {
	err := l.client.XGroupCreateMkStream(ctx, l.stream, l.group, "0").Err()
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "BUSYGROUP") {
		return nil
	}
	return fmt.Errorf("create consumer group %s: %w", l.group, err)
}

// ReadNew blocks up to block for entries never delivered to the group.
func (l *RedisLog) ReadNew(ctx context.Context, consumer string, count int64, block time.Duration) ([]Message, error) {
	streams, err := l.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    l.group,
		Consumer: consumer,
		Streams:  []string{l.stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()
	if err == redis.Nil {
		return nil, nil // block timeout, nothing new
	}
	if err != nil {
		return nil, fmt.Errorf("read new entries: %w", err)
	}
	return flatten(streams), nil
}

// ReadPending reads this consumer's own delivered-but-unacknowledged
// entries from the start of its pending set.
func (l *RedisLog) ReadPending(ctx context.Context, consumer string, count int64) ([]Message, error) {
	streams, err := l.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    l.group,
		Consumer: consumer,
		Streams:  []string{l.stream, "0"},
		Count:    count,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pending entries: %w", err)
	}
	return flatten(streams), nil
}

// Ack acknowledges entries by stream id.
func (l *RedisLog) Ack(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := l.client.XAck(ctx, l.stream, l.group, ids...).Err(); err != nil {
		return fmt.Errorf("ack %d entries: %w", len(ids), err)
	}
	return nil
}

func flatten(streams []redis.XStream) []Message {
	var msgs []Message
	for _, s := range streams {
		for _, m := range s.Messages {
			msgs = append(msgs, Message{ID: m.ID, Fields: m.Values})
		}
	}
	return msgs
}
