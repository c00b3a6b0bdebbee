// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/app"
)

// UpdateHandler handles score update requests.
type UpdateHandler struct {
	deps Dependencies
}

// NewUpdateHandler creates a new score update handler.
func NewUpdateHandler(deps Dependencies) *UpdateHandler {
	return &UpdateHandler{deps: deps}
}

type updateResponse struct {
	Status   string  `json:"status"`
	PlayerID int64   `json:"playerId"`
	Score    float64 `json:"score"`
}

// HandleUpdate handles POST /api/leaderboard/update?playerId=N&newScore=S
// requests. The write is acknowledged once the ranking store and change
// log commit; system-of-record persistence happens asynchronously.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	playerID, err := strconv.ParseInt(q.Get("playerId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: playerId must be an integer", ErrBadRequest))
		return
	}
	newScore, err := strconv.ParseFloat(q.Get("newScore"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: newScore must be a number", ErrBadRequest))
		return
	}
	if err := h.deps.UpdateScore(r.Context(), playerID, newScore); err != nil {
		if errors.Is(err, app.ErrInvalidPlayerID) || errors.Is(err, app.ErrInvalidScore) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{
		Status:   "ok",
		PlayerID: playerID,
		Score:    newScore,
	})
}
