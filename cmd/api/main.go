package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-movies/backend/internal/config"
	"github.com/zhouzirui/z-movies/backend/internal/handler"
	eventsHandler "github.com/zhouzirui/z-movies/backend/internal/handler/events"
	"github.com/zhouzirui/z-movies/backend/internal/logging"
	"github.com/zhouzirui/z-movies/backend/internal/model/movie"
	"github.com/zhouzirui/z-movies/backend/internal/service/events"
	movieservice "github.com/zhouzirui/z-movies/backend/internal/service/movie"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("failed to load .env file, continuing with system environment", zap.Error(envErr))
	}

	hub := events.NewHub(logger.Named("events"))
	defer hub.Close()

	// Store is rebuilt from scratch on every start
	movieSvc := movieservice.NewService(movie.NewMemoryStore(), hub, logger.Named("movies"))
	movieSvc.Reset(ctx)
	if cfg.Store.Seed {
		movieSvc.SeedIfEmpty(ctx)
	} else {
		logger.Info("seeding disabled by configuration")
	}

	router := handler.NewRouter(movieSvc, hub, eventsHandler.Options{
		Buffer:    cfg.Events.Buffer,
		Heartbeat: cfg.Events.Heartbeat,
	}, logger.Named("http"))

	startServer(ctx, logger, cfg.Server, router, hub)
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler, hub *events.Hub) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Streaming feeds only return once their subscriptions close.
	srv.RegisterOnShutdown(hub.Close)

	logger.Info("movies backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
