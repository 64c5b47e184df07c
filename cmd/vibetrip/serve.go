package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vibetrip/vibetrip/internal/cleanup"
	"github.com/vibetrip/vibetrip/internal/config"
	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/gamification"
	"github.com/vibetrip/vibetrip/internal/media"
	"github.com/vibetrip/vibetrip/internal/server"
	"github.com/vibetrip/vibetrip/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the VibeTrip API server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (VIBETRIP_NATS_URL not set)")
		}

		var uploader *media.Uploader
		if cfg.MediaS3Bucket != "" {
			uploader, err = media.NewUploader(
				context.Background(),
				cfg.MediaS3Bucket,
				cfg.MediaS3Region,
				cfg.MediaS3Endpoint,
				cfg.MediaBaseURL,
			)
			if err != nil {
				logger.Error("failed to create media uploader", "err", err)
				uploader = nil
			} else {
				logger.Info("media uploads enabled", "bucket", cfg.MediaS3Bucket)
			}
		}

		apiServer := server.NewServer(store, publisher, uploader, logger)
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: apiServer.NewHTTPHandler(cfg.JWTSecret),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the past-event cleanup scheduler.
		var scheduler *cleanup.Scheduler
		if cfg.CleanupInterval > 0 {
			scheduler = cleanup.NewScheduler(store, cfg.CleanupInterval, logger)
			scheduler.Start()
			logger.Info("cleanup scheduler started", "interval", cfg.CleanupInterval)
		}

		// Start the gamification subscriber if NATS is available.
		var gamifyCancel context.CancelFunc
		if cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				logger.Error("failed to create gamification subscriber", "err", err)
			} else {
				handler := gamification.NewHandler(
					gamification.NewAwarder(store, publisher, logger), logger)
				var gamifyCtx context.Context
				gamifyCtx, gamifyCancel = context.WithCancel(context.Background())
				go func() {
					if err := handler.StartSubscriber(gamifyCtx, sub); err != nil {
						logger.Error("gamification subscriber error", "err", err)
					}
					sub.Close()
				}()
				logger.Info("gamification subscriber started")
			}
		}

		logger.Info("vibetrip server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if gamifyCancel != nil {
			gamifyCancel()
			logger.Info("gamification subscriber stopped")
		}

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("cleanup scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
