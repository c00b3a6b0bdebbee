// Package repository defines the system-of-record player store.
//
// The repository is the durable, authoritative home of player data. It
// is written asynchronously relative to the ranking tier: the change-log
// consumer drains accepted score updates into it in bulk.
package repository

import (
	"context"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
)

// PlayerStore is the persistence contract the write-behind engine needs.
type PlayerStore interface {
	// GetScores returns every player's score.
	GetScores(ctx context.Context) ([]float64, error)

	// GetTopPlayers returns up to n players ordered by score descending.
	GetTopPlayers(ctx context.Context, n int) ([]model.Player, error)

	// UpdatePlayerScore sets one player's score. Unknown players are
	// ignored; players are provisioned externally.
	UpdatePlayerScore(ctx context.Context, playerID int64, newScore float64) error

	// UpdatePlayerScores applies a batch of scores in one transaction.
	UpdatePlayerScores(ctx context.Context, updates map[int64]float64) error
}
