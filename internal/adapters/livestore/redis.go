package livestore

import (
	"context"
	"fmt"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/changelog"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
)

const defaultStreamMaxLen = 1_000_000

// RedisStore implements Store on a Redis sorted set plus a capped stream.
type RedisStore struct {
	client       *redis.Client
	key          string
	stream       string
	streamMaxLen int64
}

// NewRedisStore creates a ranking store over the given client.
func NewRedisStore(client *redis.Client, opts ...Option) *RedisStore {
	s := &RedisStore{
		client:       client,
		key:          LeaderboardKey,
		stream:       changelog.StreamName,
		streamMaxLen: defaultStreamMaxLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateScore runs ZADD and XADD inside one MULTI/EXEC unit. Without the
// transaction a crash between the two commands would leave a rank update
// that no change-event ever records, silently dropping its persistence.
func (s *RedisStore) UpdateScore(ctx context.Context, playerID int64, newScore float64) error {
	member := strconv.FormatInt(playerID, 10)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, s.key, redis.Z{Score: newScore, Member: member})
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: s.streamMaxLen,
			Approx: true,
			Values: map[string]any{
				changelog.FieldPlayerID: member,
				changelog.FieldScore:    strconv.FormatFloat(newScore, 'f', -1, 64),
			},
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("update score for player %d: %w", playerID, err)
	}
	return nil
}

// TopN returns up to n members, best score first.
func (s *RedisStore) TopN(ctx context.Context, n int) ([]Pair, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("range top %d: %w", n, err)
	}
	pairs := make([]Pair, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected member type %T", z.Member)
		}
		playerID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse member %q: %w", member, err)
		}
		pairs = append(pairs, Pair{PlayerID: playerID, Score: z.Score})
	}
	return pairs, nil
}

// Count returns the sorted set cardinality.
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	n, err := s.client.ZCard(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("ranking cardinality: %w", err)
	}
	return n, nil
}

// LoadSnapshot bulk-loads players with one pipelined round trip.
func (s *RedisStore) LoadSnapshot(ctx context.Context, players []model.Player) error {
	if len(players) == 0 {
		return nil
	}
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range players {
			pipe.ZAdd(ctx, s.key, redis.Z{
				Score:  p.Score,
				Member: strconv.FormatInt(p.ID, 10),
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("load snapshot of %d players: %w", len(players), err)
	}
	return nil
}
