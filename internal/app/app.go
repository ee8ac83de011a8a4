package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sceneframes/backend/internal/config"
	"github.com/sceneframes/backend/internal/db"
	"github.com/sceneframes/backend/internal/logging"
)

// Run bootstraps the SceneFrames backend application.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve or ping")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "ping":
		return ping(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// serve is the composition root: it wires configuration, logging, the
// connection manager and the services an embedding transport layer consumes,
// then waits for shutdown. A failed database connection leaves the process
// running degraded rather than aborting startup.
func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	manager := db.NewManager(cfg.MongoURI, cfg.MongoDBName, cfg.MongoTimeout)
	manager.Initialize(ctx)
	if state, lastErr := manager.Status(); state != db.StateReady {
		logger.Warn("starting degraded", "state", state.String(), "error", lastErr)
	}

	deps, err := buildDependencies(ctx, manager, cfg)
	if err != nil {
		return err
	}

	logger.Info("backend ready",
		"database", cfg.MongoDBName,
		"frameStorage", deps.Chats.Storage != nil,
	)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return manager.Disconnect(shutdownCtx)
}

// ping performs a one-shot connectivity check against the configured endpoint.
func ping(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx = logging.WithLogger(ctx, logger)

	manager := db.NewManager(cfg.MongoURI, cfg.MongoDBName, cfg.MongoTimeout)
	manager.Initialize(ctx)
	defer func() {
		_ = manager.Disconnect(context.Background())
	}()

	state, lastErr := manager.Status()
	if state != db.StateReady {
		return fmt.Errorf("mongodb unavailable (state %s): %w", state, lastErr)
	}

	logger.Info("mongodb reachable", "database", cfg.MongoDBName)
	return nil
}
