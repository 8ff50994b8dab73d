package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cs-practicals/algosim/internal/api"
	"github.com/cs-practicals/algosim/internal/config"
	"github.com/cs-practicals/algosim/internal/service"
	"github.com/cs-practicals/algosim/internal/sim"
	"github.com/cs-practicals/algosim/internal/storage"
	"github.com/cs-practicals/algosim/internal/storage/cassandra"
	"github.com/cs-practicals/algosim/pkg/logger"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", logger.F("error", err.Error()))
		os.Exit(1)
	}
	log = logger.New(cfg.LogLevel)

	results, closer, err := openResults(cfg, log)
	if err != nil {
		log.Error("Failed to initialize result store",
			logger.F("backend", cfg.StoreBackend),
			logger.F("error", err.Error()))
		os.Exit(1)
	}
	defer closer.Close()
	log.Info("Result store ready", logger.F("backend", cfg.StoreBackend))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := sim.NewClock()
	go clock.Run(ctx)

	hub := api.NewHub(log)
	go hub.Run(ctx)

	rounds := service.NewRoundService(
		service.NewCatalogue(cfg.Game),
		results,
		hub,
		clock,
		cfg.DefaultSeed,
		log,
	)
	defer rounds.Close()

	handler := api.NewHandler(rounds, hub, log)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(api.RequestIDMiddleware)
	router.Use(api.LoggingMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Mount("/", handler.Routes())

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", logger.F("address", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", logger.F("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.F("error", err.Error()))
	}

	log.Info("Server exited")
}

// openResults builds the configured result backend. The closer releases
// its connections on shutdown.
func openResults(cfg *config.Config, log *logger.Logger) (storage.ResultRepository, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		store, err := storage.NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.BackendSQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.BackendCassandra:
		client, err := cassandra.NewClient(cfg.Cassandra, log)
		if err != nil {
			return nil, nil, err
		}
		repo := cassandra.NewRepository(client, log, cfg.Cassandra.Timeout)
		return repo, closerFunc(client.Close), nil
	case config.BackendMemory:
		return storage.NewMemoryStorage(), closerFunc(func() {}), nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}
