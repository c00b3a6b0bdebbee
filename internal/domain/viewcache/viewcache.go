// Package viewcache provides the process-local, short-TTL cache of
// computed top-K views, with per-key request coalescing so any number of
// concurrent misses for one K costs exactly one ranking-store query.
package viewcache

import (
	"context"
	"sync"
	"time"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
	"github.com/Telakshan/LeaderBoardUsingCaching/pkg/metrics"
)

const defaultTTL = 5 * time.Second

// Pair is one ranked member as the upstream range query returns it,
// best score first.
type Pair struct {
	PlayerID int64
	Score    float64
}

// Fetcher queries the ranking store for the top n members.
type Fetcher func(ctx context.Context, n int) ([]Pair, error)

type cachedView struct {
	entries   []model.LeaderboardEntry
	expiresAt time.Time
}

// flight is the per-key mutual-exclusion handle: the first miss owns it,
// later misses wait on done and share its outcome.
type flight struct {
	done    chan struct{}
	entries []model.LeaderboardEntry
	err     error
}

// Cache is a top-K view cache. The zero value is not usable; construct
// with New. All state is owned by the instance, nothing is ambient.
type Cache struct {
	fetch Fetcher
	ttl   time.Duration

	mu       sync.Mutex
	views    map[int]cachedView
	inflight map[int]*flight
}

// New creates a view cache over the given fetcher.
func New(fetch Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetch:    fetch,
		ttl:      defaultTTL,
		views:    make(map[int]cachedView),
		inflight: make(map[int]*flight),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TopK returns the cached top-K projection, fetching it from the
// ranking store on a miss. Concurrent misses for the same K collapse
// into one upstream query; every waiter receives the populating call's
// projection, or its error. Nothing is cached on failure.
func (c *Cache) TopK(ctx context.Context, k int) ([]model.LeaderboardEntry, error) {
	if k <= 0 {
		return nil, nil
	}

	c.mu.Lock()
	if v, ok := c.views[k]; ok && time.Now().Before(v.expiresAt) {
		c.mu.Unlock()
		metrics.RecordCacheHit()
		return v.entries, nil
	}
	if fl, ok := c.inflight[k]; ok {
		c.mu.Unlock()
		metrics.RecordCoalescedWait()
		select {
		case <-fl.done:
			return fl.entries, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fl := &flight{done: make(chan struct{})}
	c.inflight[k] = fl
	c.mu.Unlock()

	metrics.RecordCacheMiss()
	metrics.RecordUpstreamFetch()

	pairs, err := c.fetch(ctx, k)
	var entries []model.LeaderboardEntry
	if err == nil {
		entries = rank(pairs)
	}
	fl.entries, fl.err = entries, err

	c.mu.Lock()
	delete(c.inflight, k)
	if err == nil {
		c.views[k] = cachedView{entries: entries, expiresAt: time.Now().Add(c.ttl)}
	}
	c.mu.Unlock()
	close(fl.done)

	return entries, err
}

// Invalidate drops the cached view for k. A subsequent TopK refetches.
func (c *Cache) Invalidate(k int) {
	c.mu.Lock()
	delete(c.views, k)
	c.mu.Unlock()
}

// rank assigns dense 1-based ranks to an ordered range result.
func rank(pairs []Pair) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, len(pairs))
	for i, p := range pairs {
		entries[i] = model.LeaderboardEntry{
			Rank:     i + 1,
			PlayerID: p.PlayerID,
			Score:    p.Score,
		}
	}
	return entries
}
