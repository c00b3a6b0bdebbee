package app

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/adapters/livestore"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/logger"
)

func init() {
	logger.Init()
}

// fakeLive is an in-memory stand-in for the ranking tier.
type fakeLive struct {
	mu        sync.Mutex
	scores    map[int64]float64
	updates   int
	snapshots int
	topNCalls int
	failNext  error
}

func newFakeLive() *fakeLive {
	return &fakeLive{scores: make(map[int64]float64)}
}

func (f *fakeLive) UpdateScore(_ context.Context, playerID int64, newScore float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.scores[playerID] = newScore
	f.updates++
	return nil
}

func (f *fakeLive) TopN(_ context.Context, n int) ([]livestore.Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topNCalls++
	pairs := make([]livestore.Pair, 0, len(f.scores))
	for id, s := range f.scores {
		pairs = append(pairs, livestore.Pair{PlayerID: id, Score: s})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs, nil
}

func (f *fakeLive) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.scores)), nil
}

func (f *fakeLive) LoadSnapshot(_ context.Context, players []model.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range players {
		f.scores[p.ID] = p.Score
	}
	f.snapshots++
	return nil
}

// fakeRepo is an in-memory system-of-record.
type fakeRepo struct {
	mu      sync.Mutex
	players []model.Player
	reads   int
}

func (f *fakeRepo) GetScores(context.Context) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]float64, len(f.players))
	for i, p := range f.players {
		out[i] = p.Score
	}
	return out, nil
}

func (f *fakeRepo) GetTopPlayers(_ context.Context, n int) ([]model.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	players := append([]model.Player(nil), f.players...)
	sort.Slice(players, func(i, j int) bool { return players[i].Score > players[j].Score })
	if len(players) > n {
		players = players[:n]
	}
	return players, nil
}

func (f *fakeRepo) UpdatePlayerScore(_ context.Context, playerID int64, newScore float64) error {
	return nil
}

func (f *fakeRepo) UpdatePlayerScores(context.Context, map[int64]float64) error {
	return nil
}

func TestServiceUpdateScore(t *testing.T) {
	Convey("Given a service over an empty ranking tier", t, func() {
		live := newFakeLive()
		svc := New(live, &fakeRepo{}, WithCacheTTL(time.Minute))
		ctx := context.Background()

		Convey("When a valid update arrives", func() {
			err := svc.UpdateScore(ctx, 7, 123.45)

			Convey("Then the ranking tier holds the quantized score", func() {
				So(err, ShouldBeNil)
				So(live.scores[7], ShouldEqual, 123.45)
			})
		})

		Convey("When the score carries more than four decimal digits", func() {
			err := svc.UpdateScore(ctx, 7, 1.23456789)

			Convey("Then it is quantized before the write", func() {
				So(err, ShouldBeNil)
				So(live.scores[7], ShouldEqual, 1.2346)
			})
		})

		Convey("When the player id is not positive", func() {
			err := svc.UpdateScore(ctx, 0, 10)

			Convey("Then the update is rejected", func() {
				So(errors.Is(err, ErrInvalidPlayerID), ShouldBeTrue)
				So(live.updates, ShouldEqual, 0)
			})
		})

		Convey("When the score is not finite", func() {
			err := svc.UpdateScore(ctx, 7, math.NaN())

			Convey("Then the update is rejected", func() {
				So(errors.Is(err, ErrInvalidScore), ShouldBeTrue)
				So(live.updates, ShouldEqual, 0)
			})
		})

		Convey("When the ranking tier write fails", func() {
			live.failNext = errors.New("redis down")
			err := svc.UpdateScore(ctx, 7, 10)

			Convey("Then the error propagates", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestServiceTopPlayers(t *testing.T) {
	Convey("Given a ranking tier with three players", t, func() {
		live := newFakeLive()
		live.scores = map[int64]float64{1: 50, 2: 90, 3: 70}
		svc := New(live, &fakeRepo{}, WithCacheTTL(time.Minute))
		ctx := context.Background()

		Convey("When the top 3 is requested", func() {
			entries, err := svc.TopPlayers(ctx, 3)

			Convey("Then entries come back best first with dense ranks", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldResemble, []model.LeaderboardEntry{
					{Rank: 1, PlayerID: 2, Score: 90},
					{Rank: 2, PlayerID: 3, Score: 70},
					{Rank: 3, PlayerID: 1, Score: 50},
				})
			})
		})

		Convey("When the same view is requested twice", func() {
			_, err1 := svc.TopPlayers(ctx, 3)
			_, err2 := svc.TopPlayers(ctx, 3)

			Convey("Then the second read is served from the cached view", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(live.topNCalls, ShouldEqual, 1)
			})
		})

		Convey("When an update lands on the default view size", func() {
			svc2 := New(live, &fakeRepo{}, WithCacheTTL(time.Minute), WithDefaultTopK(3))
			_, err := svc2.TopPlayers(ctx, 3)
			So(err, ShouldBeNil)
			before := live.topNCalls

			So(svc2.UpdateScore(ctx, 4, 95), ShouldBeNil)
			entries, err := svc2.TopPlayers(ctx, 3)

			Convey("Then the next read refetches and sees the new score", func() {
				So(err, ShouldBeNil)
				So(live.topNCalls, ShouldEqual, before+1)
				So(entries[0].PlayerID, ShouldEqual, 4)
			})
		})

		Convey("When top-K is not positive", func() {
			_, err := svc.TopPlayers(ctx, 0)

			Convey("Then the request is rejected", func() {
				So(errors.Is(err, ErrInvalidTopK), ShouldBeTrue)
			})
		})
	})
}

func TestServiceRehydrate(t *testing.T) {
	Convey("Given a cold ranking tier and a populated system-of-record", t, func() {
		live := newFakeLive()
		repo := &fakeRepo{players: []model.Player{
			{ID: 1, Name: "a", Score: 50},
			{ID: 2, Name: "b", Score: 90},
			{ID: 3, Name: "c", Score: 70},
		}}
		svc := New(live, repo, WithWarmThreshold(2), WithRehydrateTopN(2))
		ctx := context.Background()

		Convey("When rehydration runs", func() {
			err := svc.Rehydrate(ctx)

			Convey("Then the top players are seeded into the ranking tier", func() {
				So(err, ShouldBeNil)
				So(live.snapshots, ShouldEqual, 1)
				So(live.scores, ShouldResemble, map[int64]float64{2: 90, 3: 70})
			})

			Convey("And a second run finds a warm tier and writes nothing", func() {
				err := svc.Rehydrate(ctx)
				So(err, ShouldBeNil)
				So(live.snapshots, ShouldEqual, 1)
				So(repo.reads, ShouldEqual, 1)
			})
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service without a worker", t, func() {
		svc := New(newFakeLive(), &fakeRepo{})

		Convey("Then start and stop are idempotent no-ops", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			svc.Stop()
			svc.Stop()
		})
	})
}
