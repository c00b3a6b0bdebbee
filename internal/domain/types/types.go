// Package types contains wire-facing types shared across the application.
package types

// Entry is the JSON shape of one leaderboard row.
type Entry struct {
	Rank     int     `json:"rank"`
	PlayerID int64   `json:"playerId"`
	Score    float64 `json:"score"`
}
