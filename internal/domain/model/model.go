// Package model contains domain models passed between layers.
package model

// Player is a row in the system-of-record. Players are provisioned
// externally; this subsystem only ever mutates Score.
type Player struct {
	ID    int64
	Name  string
	Score float64
}

// ScoreUpdate is the change-event payload carried by the change log.
// Immutable once created.
type ScoreUpdate struct {
	PlayerID int64
	NewScore float64
}

// LeaderboardEntry is the read projection served to clients. Rank is
// 1-based and dense, descending by score. Entries live only inside the
// view cache and are recomputed on demand.
type LeaderboardEntry struct {
	Rank     int
	PlayerID int64
	Score    float64
}
