package server

import (
	"net/http"

	"github.com/playperu/scoreboard/internal/scoreboard"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	OK        bool   `json:"ok"`
	UpdatedAt string `json:"updatedAt"`
}

func handleHealth(store *scoreboard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{OK: true, UpdatedAt: store.Snapshot().UpdatedAt})
	}
}
