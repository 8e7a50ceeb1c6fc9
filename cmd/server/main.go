package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/scoreboard/internal/config"
	"github.com/playperu/scoreboard/internal/handler/health"
	"github.com/playperu/scoreboard/internal/scoreboard"
	"github.com/playperu/scoreboard/internal/server"
	"github.com/playperu/scoreboard/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	if cfg.AdminPin == config.DefaultAdminPin {
		logger.Warn("ADMIN_PIN is not set, using the default pin")
	}

	// --- Storage ---
	backend, err := storage.Open(ctx, storage.Options{
		Kind:     cfg.StateBackend,
		Dir:      cfg.DataDir,
		RedisURL: cfg.RedisURL,
		RedisKey: cfg.RedisKey,
	})
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.StateBackend, err)
	}
	defer backend.Close()
	logger.Info("storage ready", "backend", cfg.StateBackend, "dir", cfg.DataDir)

	// --- Scoreboard ---
	clock := clockwork.NewRealClock()
	store := scoreboard.NewStore(scoreboard.LoadState(ctx, backend, clock.Now(), logger))
	broker := server.NewBroker(logger)
	ordering := scoreboard.NewOrdering(cfg.Collation)

	dispatcher := scoreboard.NewDispatcher(scoreboard.DispatcherConfig{
		Store:       store,
		Persister:   backend,
		Broadcaster: broker,
		Ordering:    ordering,
		Clock:       clock,
		Logger:      logger,
	})

	// --- HTTP Server ---
	addr := cfg.Addr()
	srv := server.New(addr, logger, server.Deps{
		Store:       store,
		Dispatcher:  dispatcher,
		Broker:      broker,
		Gate:        server.NewGate(cfg.AdminPin),
		Ordering:    ordering,
		Clock:       clock,
		Checks:      map[string]health.Checker{"storage": backend},
		PublicDir:   cfg.PublicDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		base := "http://localhost" + addr
		if !strings.HasPrefix(addr, ":") {
			base = "http://" + addr
		}
		logger.Info("starting http server",
			"addr", addr,
			"display_url", base+"/display.html",
			"admin_url", base+"/admin.html",
		)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
