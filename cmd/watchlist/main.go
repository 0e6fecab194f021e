package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelstore/reelstore/internal/api/handler"
	"github.com/reelstore/reelstore/internal/api/middleware"
	"github.com/reelstore/reelstore/internal/client"
	"github.com/reelstore/reelstore/internal/config"
	"github.com/reelstore/reelstore/internal/domain/repository"
	"github.com/reelstore/reelstore/internal/infrastructure/postgres"
	"github.com/reelstore/reelstore/internal/infrastructure/queue"
	"github.com/reelstore/reelstore/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	watchlistRepo := postgres.NewWatchlistRepository(pgClient.Pool())
	movieClient := client.NewMovieClient(cfg.Services.MovieServiceURL)
	userClient := client.NewUserClient(cfg.Services.UserServiceURL)

	watchlistSvc := usecase.NewWatchlistService(watchlistRepo, movieClient, userClient)
	watchlistHandler := handler.NewWatchlistHandler(watchlistSvc)

	// Consume movie-deleted events and prune referencing watchlist rows.
	// Events past the retry budget are dropped; the prune is idempotent so
	// a redelivered event is harmless.
	consumerErrCh := make(chan error, 1)
	go func() {
		logger.Info("starting movie-deleted event consumer")
		err := queueClient.ConsumeMovieDeleted(ctx, func(event repository.MovieDeletedEvent) error {
			if event.RetryCount > cfg.RabbitMQ.MaxRetries {
				logger.Error("dropping movie-deleted event after retries",
					slog.String("event_id", event.EventID.String()),
					slog.Int64("movie_id", event.MovieID),
					slog.Int("retry_count", event.RetryCount),
				)
				return nil
			}

			removed, err := watchlistSvc.PruneMovie(ctx, event.MovieID)
			if err != nil {
				logger.Error("failed to prune watchlist entries",
					slog.String("event_id", event.EventID.String()),
					slog.Int64("movie_id", event.MovieID),
					slog.String("error", err.Error()),
				)
				return err
			}

			logger.Info("pruned watchlist entries for deleted movie",
				slog.String("event_id", event.EventID.String()),
				slog.Int64("movie_id", event.MovieID),
				slog.Int64("removed", removed),
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			consumerErrCh <- fmt.Errorf("event consumer error: %w", err)
		}
	}()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health("watchlist"))
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", watchlistHandler.Routes)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting watchlist service", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case err := <-consumerErrCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down watchlist service", slog.String("signal", sig.String()))
	}

	cancel() // stop the consumer

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("watchlist service stopped")
	return nil
}
