package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"dota-review-tracker/internal/config"
	"dota-review-tracker/internal/constants"
	"dota-review-tracker/internal/domain"
	fxmodules "dota-review-tracker/internal/fx"
	"dota-review-tracker/internal/host"
	"dota-review-tracker/internal/messaging"
	"dota-review-tracker/internal/middleware"
	"dota-review-tracker/internal/server"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	trackerServer *server.TrackerServer,
	adapter *host.Adapter,
	hub *messaging.Hub,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	path, handler := server.NewReviewTrackerHandler(trackerServer)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	requestIDMiddleware := middleware.RequestID(logger)

	mux.Handle(path, requestIDMiddleware(c.Handler(handler)))
	mux.Handle("/ws", requestIDMiddleware(hub))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%s", cfg.ServerPort),
		Handler: mux,
	}

	runCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(runCtx)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			g.Go(func() error {
				return hub.Run(gctx)
			})
			g.Go(func() error {
				err := adapter.Run(gctx)
				if errors.Is(err, domain.ErrHostUnavailable) {
					logger.Warn().Msg("game runtime not detected, overlay features disabled")
					return nil
				}
				return err
			})
			go func() {
				if err := g.Wait(); err != nil {
					logger.Error().Err(err).Msg("background task failed")
					shutdowner.Shutdown() //nolint:errcheck
				}
			}()

			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			cancel()
			if err := g.Wait(); err != nil {
				logger.Warn().Err(err).Msg("background task stopped with error")
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
