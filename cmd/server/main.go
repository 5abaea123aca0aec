package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chessarena/server/internal/api"
	"github.com/chessarena/server/internal/broadcast"
	"github.com/chessarena/server/internal/config"
	"github.com/chessarena/server/internal/db"
	"github.com/chessarena/server/internal/logger"
	"github.com/chessarena/server/internal/rating"
	"github.com/chessarena/server/internal/repository/sqlite"
	"github.com/chessarena/server/internal/services"
	"github.com/chessarena/server/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("ChessArena Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("elo_k_factor=%d", cfg.EloKFactor)
	log.Debug("publish_worker_count=%d", cfg.PublishWorkerCount)
	log.Debug("publish_queue_size=%d", cfg.PublishQueueSize)
	log.Debug("janus_url=%s", cfg.JanusURL)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	gameRepo := sqlite.NewGameRepository(database.DB)
	moveRepo := sqlite.NewMoveRepository(database.DB)
	playerRepo := sqlite.NewPlayerRepository(database.DB)
	timeControlRepo := sqlite.NewTimeControlRepository(database.DB)

	// Snapshot delivery: the websocket hub behind a worker pool, so a
	// slow subscriber never holds up a move.
	publishPool := worker.NewPool(cfg.PublishWorkerCount, cfg.PublishQueueSize)
	hub := broadcast.NewHub()
	publisher := broadcast.NewAsyncPublisher(publishPool, hub)

	var provisioner broadcast.RoomProvisioner
	if cfg.JanusURL != "" {
		provisioner = broadcast.NewJanusClient(cfg.JanusURL)
		log.Info("video room provisioning enabled via %s", cfg.JanusURL)
	} else {
		log.Info("video room provisioning disabled (JANUS_URL not set)")
	}

	// Initialize services
	ratingUpdater := rating.NewUpdater(playerRepo, cfg.EloKFactor)
	gameService := services.NewGameService(
		gameRepo, moveRepo, playerRepo, timeControlRepo,
		ratingUpdater, publisher, provisioner,
	)
	playerService := services.NewPlayerService(playerRepo)

	srv := &api.Server{
		DB:            database.DB,
		GameService:   gameService,
		PlayerService: playerService,
		TimeControls:  timeControlRepo,
		Hub:           hub,
	}

	ctx, cancel := context.WithCancel(context.Background())
	publishPool.Start(ctx)

	// Configure HTTP server. No WriteTimeout: it would sever long-lived
	// websocket subscriptions.
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping publish pool")
	publishPool.Stop()

	log.Info("===========================================")
	log.Info("ChessArena Server Stopped")
	log.Info("===========================================")
}
