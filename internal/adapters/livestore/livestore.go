// Package livestore defines the live ranking tier: a sorted collection
// that is the source of truth for current rank, plus the atomic write
// that pairs every rank update with a durable change-log append.
package livestore

import (
	"context"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
)

// LeaderboardKey names the sorted collection holding all ranked players.
const LeaderboardKey = "leaderboard"

// Pair is one ranked member as stored in the ranking tier.
type Pair struct {
	PlayerID int64
	Score    float64
}

// Store provides read/write access to the live ranking state.
type Store interface {
	// UpdateScore adds or replaces the player's score and appends the
	// matching change-event in one atomic unit: either both effects
	// commit or neither does.
	UpdateScore(ctx context.Context, playerID int64, newScore float64) error

	// TopN returns up to n members ordered by score descending.
	TopN(ctx context.Context, n int) ([]Pair, error)

	// Count returns the cardinality of the sorted collection.
	Count(ctx context.Context) (int64, error)

	// LoadSnapshot bulk-loads players into the ranking tier without
	// emitting change-events; used only by rehydration, whose data is
	// already durable.
	LoadSnapshot(ctx context.Context, players []model.Player) error
}
