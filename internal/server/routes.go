package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/scoreboard/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Pubquiz Scoreboard API", "/openapi.json", "/docs"))
	r.Get("/health", handleHealth(deps.Store))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Get("/ws", handleSocket(logger, deps.Clock, deps.Gate, deps.Dispatcher, deps.Broker))
	r.Get("/events", handleEvents(deps.Clock, deps.Dispatcher, deps.Broker))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", handleState(deps.Store))
		r.Get("/leaderboard", handleLeaderboard(deps.Store, deps.Ordering))
	})

	if deps.PublicDir != "" {
		if info, err := os.Stat(deps.PublicDir); err == nil && info.IsDir() {
			logger.Info("serving static pages", "dir", deps.PublicDir)
			r.NotFound(handleStatic(deps.PublicDir))
		}
	}
}
