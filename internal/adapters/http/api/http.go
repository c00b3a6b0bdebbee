// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/model"
	"github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/types"
)

// Dependencies required by HTTP handlers. The interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// UpdateScore submits a score update for a player.
	UpdateScore(ctx context.Context, playerID int64, newScore float64) error

	// TopPlayers returns the current ranked top-K projection.
	TopPlayers(ctx context.Context, topK int) ([]model.LeaderboardEntry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the leaderboard API.
type Server struct {
	healthHandler  *HealthHandler
	metricsHandler *MetricsHandler
	topHandler     *TopHandler
	updateHandler  *UpdateHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		metricsHandler: NewMetricsHandler(),
		topHandler:     NewTopHandler(deps),
		updateHandler:  NewUpdateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.metricsHandler.HandleMetrics)
	mux.HandleFunc("/api/leaderboard/top/", MetricsMiddleware(s.topHandler.HandleGetTop, "leaderboard_top"))
	mux.HandleFunc("/api/leaderboard/update", MetricsMiddleware(s.updateHandler.HandleUpdate, "leaderboard_update"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// toEntries converts service entries to the wire shape.
func toEntries(in []model.LeaderboardEntry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = Entry{Rank: e.Rank, PlayerID: e.PlayerID, Score: e.Score}
	}
	return out
}
