package server

import (
	"net/http"
	"strconv"

	"github.com/playperu/scoreboard/internal/scoreboard"
)

const defaultTop = 10

// LeaderboardResponse is the ranked view of the quiz used by displays.
type LeaderboardResponse struct {
	QuizTitle string                `json:"quizTitle"`
	UpdatedAt string                `json:"updatedAt"`
	Standings []scoreboard.Standing `json:"standings"`
}

func handleState(store *scoreboard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Snapshot())
	}
}

// handleLeaderboard ranks teams. ?top=N limits the list; 0 or 60 and up
// returns every team.
func handleLeaderboard(store *scoreboard.Store, ordering scoreboard.Ordering) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top := defaultTop
		if raw := r.URL.Query().Get("top"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "top must be a non-negative integer")
				return
			}
			top = n
		}

		snap := store.Snapshot()
		writeJSON(w, http.StatusOK, LeaderboardResponse{
			QuizTitle: snap.QuizTitle,
			UpdatedAt: snap.UpdatedAt,
			Standings: ordering.Rank(snap.Teams, top),
		})
	}
}
