package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astralis-app/astralis/internal/config"
	"github.com/astralis-app/astralis/internal/database"
	"github.com/astralis-app/astralis/internal/database/sqlite"
	"github.com/astralis-app/astralis/internal/event"
	"github.com/astralis-app/astralis/internal/gacha"
	"github.com/astralis-app/astralis/internal/handler"
	"github.com/astralis-app/astralis/internal/limits"
	"github.com/astralis-app/astralis/internal/metrics"
	"github.com/astralis-app/astralis/internal/platform"
	"github.com/astralis-app/astralis/internal/rewards"
	"github.com/astralis-app/astralis/internal/server"
	"github.com/astralis-app/astralis/internal/session"
	"github.com/astralis-app/astralis/internal/sse"
	"github.com/astralis-app/astralis/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	initLogger(cfg)
	handler.InitValidator()

	ctx := context.Background()

	// Shared store, read by this process and the OS monitoring extension.
	db, err := database.Open(ctx, cfg.StorePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		return err
	}
	store := sqlite.NewStore(db)

	// Event plumbing
	bus := event.NewMemoryBus()
	publisher := event.NewResilientPublisher(bus, event.ResilientConfig{
		DeadLetterPath: cfg.DeadLetterPath,
	})

	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(bus); err != nil {
		return err
	}

	sseHub := sse.NewHub()
	sseHub.Start()
	defer sseHub.Stop()
	sse.NewSubscriber(sseHub, bus).Subscribe()

	// Services
	rewardsService := rewards.NewService(store, bus)
	gachaService := gacha.NewService(store, bus)
	limitsService := limits.NewService(store, bus)
	sessionService := session.NewService(store, bus, rewardsService,
		&platform.LogShield{}, &platform.LogMonitor{}, &platform.LogNotifier{})
	defer sessionService.Shutdown()

	// A crash mid-session can leave an ante stranded in escrow.
	if recovered, err := rewardsService.RecoverOrphanedAnte(ctx); err != nil {
		slog.Warn("Orphaned ante recovery failed", "error", err)
	} else if recovered > 0 {
		slog.Info("Recovered orphaned ante", "amount", recovered)
	}

	rolloverWorker := worker.NewRolloverWorker(limitsService, publisher)
	rolloverWorker.Start()

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, db,
		sessionService, rewardsService, gachaService, limitsService, sseHub)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("Server shutdown error", "error", err)
	}
	if err := rolloverWorker.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Rollover worker shutdown error", "error", err)
	}
	if err := publisher.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Event publisher shutdown error", "error", err)
	}

	return nil
}
