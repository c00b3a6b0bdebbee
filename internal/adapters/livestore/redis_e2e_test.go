//go:build e2e

package livestore_test

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/changelog"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/livestore"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
)

const (
	e2eKey    = "e2e-leaderboard"
	e2eStream = "e2e-score-events"
)

// newE2EStore connects to a local Redis or skips the test.
func newE2EStore(t *testing.T) (*livestore.RedisStore, *redis.Client) {
	t.Helper()
	rc := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping: Redis not reachable on 127.0.0.1:6379: %v", err)
	}
	if err := rc.Del(context.Background(), e2eKey, e2eStream).Err(); err != nil {
		t.Fatalf("clean slate failed: %v", err)
	}
	t.Cleanup(func() {
		_ = rc.Del(context.Background(), e2eKey, e2eStream).Err()
		_ = rc.Close()
	})
	return livestore.NewRedisStore(rc,
		livestore.WithKey(e2eKey),
		livestore.WithStream(e2eStream),
	), rc
}

// TestUpdateScoreDualWriteE2E verifies one update lands in both the
// sorted set and the stream. Requires a Redis at 127.0.0.1:6379.
func TestUpdateScoreDualWriteE2E(t *testing.T) {
	store, rc := newE2EStore(t)
	ctx := context.Background()

	if err := store.UpdateScore(ctx, 42, 123.45); err != nil {
		t.Fatalf("update score failed: %v", err)
	}

	got, err := rc.ZScore(ctx, e2eKey, "42").Result()
	if err != nil {
		t.Fatalf("ZSCORE failed: %v", err)
	}
	if got != 123.45 {
		t.Fatalf("sorted set score = %v, want 123.45", got)
	}

	msgs, err := rc.XRange(ctx, e2eStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRANGE failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("stream length = %d, want 1", len(msgs))
	}
	if pid := msgs[0].Values[changelog.FieldPlayerID]; pid != "42" {
		t.Fatalf("stream pid = %v, want 42", pid)
	}
	if s := msgs[0].Values[changelog.FieldScore]; s != "123.45" {
		t.Fatalf("stream score = %v, want 123.45", s)
	}
}

// TestTopNOrderingE2E verifies descending order and limit handling.
func TestTopNOrderingE2E(t *testing.T) {
	store, _ := newE2EStore(t)
	ctx := context.Background()

	scores := map[int64]float64{1: 50, 2: 90, 3: 70, 4: 10}
	for id, s := range scores {
		if err := store.UpdateScore(ctx, id, s); err != nil {
			t.Fatalf("update score failed: %v", err)
		}
	}

	pairs, err := store.TopN(ctx, 3)
	if err != nil {
		t.Fatalf("top-n failed: %v", err)
	}
	want := []livestore.Pair{{PlayerID: 2, Score: 90}, {PlayerID: 3, Score: 70}, {PlayerID: 1, Score: 50}}
	if len(pairs) != len(want) {
		t.Fatalf("got %d pairs, want %d", len(pairs), len(want))
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Fatalf("pair[%d] = %+v, want %+v", i, pairs[i], want[i])
		}
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != int64(len(scores)) {
		t.Fatalf("count = %d, want %d", n, len(scores))
	}
}

// TestLoadSnapshotE2E verifies bulk seeding writes the sorted set only.
func TestLoadSnapshotE2E(t *testing.T) {
	store, rc := newE2EStore(t)
	ctx := context.Background()

	players := make([]model.Player, 0, 10)
	for i := 1; i <= 10; i++ {
		players = append(players, model.Player{ID: int64(i), Score: float64(i * 10)})
	}
	if err := store.LoadSnapshot(ctx, players); err != nil {
		t.Fatalf("load snapshot failed: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 10 {
		t.Fatalf("count = %d, want 10", n)
	}

	// Seeding replays already-durable data, so no change-events appear.
	streamLen, err := rc.XLen(ctx, e2eStream).Result()
	if err != nil && err != redis.Nil {
		t.Fatalf("XLEN failed: %v", err)
	}
	if streamLen != 0 {
		t.Fatalf("stream length = %d, want 0", streamLen)
	}

	pairs, err := store.TopN(ctx, 1)
	if err != nil {
		t.Fatalf("top-n failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0].PlayerID != 10 {
		t.Fatalf("top entry = %+v, want player 10", pairs)
	}
}
