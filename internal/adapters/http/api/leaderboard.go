// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// maxTopK bounds a single read so one request cannot drag the full
// ranking out of the store.
const maxTopK = 1000

// TopHandler handles ranked top-K read requests.
type TopHandler struct {
	deps Dependencies
}

// NewTopHandler creates a new top-K handler.
func NewTopHandler(deps Dependencies) *TopHandler {
	return &TopHandler{deps: deps}
}

// HandleGetTop handles GET /api/leaderboard/top/{topK} requests.
func (h *TopHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/leaderboard/top/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	topK, err := strconv.Atoi(path)
	if err != nil || topK < 1 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: top-k must be a positive integer", ErrBadRequest))
		return
	}
	if topK > maxTopK {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			fmt.Errorf("%w: top-k above %d", ErrBadRequest, maxTopK))
		return
	}
	entries, err := h.deps.TopPlayers(r.Context(), topK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntries(entries))
}
