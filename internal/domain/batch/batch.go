// Package batch collapses a delivered batch of change-events into the
// minimal apply-set the persistence tier needs.
package batch

import "github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"

// Entry pairs a change-event with the log position it was read from.
type Entry struct {
	// ID is the change-log entry id, used for acknowledgment.
	ID string

	Update model.ScoreUpdate
}

// Coalesce reduces entries to one score per player. Entries arrive in
// stream order, so a later entry for the same player overrides an
// earlier one; intermediate values are intentionally dropped and never
// reach the system-of-record.
func Coalesce(entries []Entry) map[int64]float64 {
	if len(entries) == 0 {
		return nil
	}
	updates := make(map[int64]float64, len(entries))
	for _, e := range entries {
		updates[e.Update.PlayerID] = e.Update.NewScore
	}
	return updates
}

// IDs returns the log positions of entries, in delivery order.
func IDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
