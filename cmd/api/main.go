package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apu-inti/guardian/internal/config"
	"github.com/apu-inti/guardian/internal/handlers"
	"github.com/apu-inti/guardian/internal/logger"
	"github.com/apu-inti/guardian/internal/middleware"
	"github.com/apu-inti/guardian/internal/services/events"
	"github.com/apu-inti/guardian/internal/storage"
	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/state"
	pkgstorage "github.com/apu-inti/guardian/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Apu Inti API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend,
		"default_language", cfg.DefaultLang)

	bundle, err := content.LoadEmbedded()
	if err != nil {
		log.Error("Failed to load content", "error", err)
		os.Exit(1)
	}
	if err := content.Validate(bundle); err != nil {
		log.Error("Content bundle is invalid", "error", err)
		os.Exit(1)
	}

	engine, err := state.NewEngine(bundle,
		state.WithQuizReturnDelay(cfg.QuizDelay),
		state.WithFrameInterval(cfg.FrameInterval),
		state.WithSeed(cfg.RandomSeed),
		state.WithDefaultLanguage(cfg.DefaultLang),
	)
	if err != nil {
		log.Error("Failed to create game engine", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		store       pkgstorage.Storage
		broadcaster events.Broadcaster
	)
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rs, err := storage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
		if err != nil {
			log.Error("Failed to configure Redis", "error", err)
			os.Exit(1)
		}
		waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Minute)
		err = rs.WaitForConnection(waitCtx)
		waitCancel()
		if err != nil {
			log.Error("Failed to connect to storage", "error", err)
			os.Exit(1)
		}
		store = rs
		broadcaster = events.NewRedisBroadcaster(rs.Client(), log)
	default:
		ms := storage.NewMemoryStorage(cfg.SessionTTL, log)
		go ms.RunJanitor(ctx, time.Minute)
		store = ms
		broadcaster = events.NewMemoryBroadcaster(log)
	}
	log.Info("Storage connection established successfully")

	mux := handlers.Routes(
		handlers.NewGameHandler(engine, store, broadcaster, log),
		handlers.NewEventsHandler(broadcaster, store, log),
		handlers.NewDatasetsHandler(engine, log),
		handlers.NewHealthHandler(store, log),
	)

	handler := middleware.Chain(mux,
		middleware.RequestID,
		middleware.AccessLog(log),
		middleware.Recover(log),
	)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the events endpoint streams
		IdleTimeout: 60 * time.Second,
		// Cancelled on shutdown so open event streams end
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
