package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/reelcast/internal/config"
	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/gemini"
	"github.com/alfredjeanlab/reelcast/internal/logging"
	"github.com/alfredjeanlab/reelcast/internal/server"
	"github.com/alfredjeanlab/reelcast/internal/state"
	"github.com/alfredjeanlab/reelcast/internal/store"
	"github.com/alfredjeanlab/reelcast/internal/store/filestore"
	"github.com/alfredjeanlab/reelcast/internal/store/memory"
	"github.com/alfredjeanlab/reelcast/internal/store/postgres"
	reelsync "github.com/alfredjeanlab/reelcast/internal/sync"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the studio server",
	GroupID: "system",
	// No client connection for the server itself.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger, logCloser := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		defer logCloser.Close()
		slog.SetDefault(logger)

		backend, err := openBackend(cfg)
		if err != nil {
			return err
		}
		adapter := store.NewAdapter(backend, logger)
		defer adapter.Close()
		logger.Info("durable store opened", "backend", cfg.Store, "quota", cfg.StoreQuota)

		hub := server.NewEventHub()
		publishers := events.Fanout{hub}
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publishers = append(publishers, pub)
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			logger.Info("NATS events disabled (REEL_NATS_URL not set)")
		}
		defer publishers.Close()

		generator := gemini.New(gemini.Config{
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			Timeout: cfg.GeminiTimeout,
			Logger:  logger,
		})

		studio := state.New(adapter, state.Options{
			Publisher:   publishers,
			Logger:      logger,
			Generator:   generator,
			FlowBaseURL: cfg.FlowBaseURL,
		})
		studio.Load(cmd.Context())

		scheduler := startSync(cfg, backend, logger)
		opts := server.Options{Hub: hub, Logger: logger}
		if scheduler != nil {
			opts.Syncer = scheduler
		}
		studioServer := server.NewStudioServer(studio, opts)

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.NewHTTPHandler(studioServer, cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		var stopGRPC func()
		if cfg.GRPCAddr != "" {
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
			}
			grpcServer, health := server.NewGRPCServer(cfg.AuthToken)
			server.MarkServing(health)
			go func() {
				logger.Info("gRPC health server listening", "addr", cfg.GRPCAddr)
				if err := grpcServer.Serve(lis); err != nil {
					logger.Error("gRPC server error", "err", err)
				}
			}()
			stopGRPC = func() {
				health.Shutdown()
				grpcServer.GracefulStop()
			}
		}

		logger.Info("studio server started", "http_addr", cfg.HTTPAddr, "grpc_addr", cfg.GRPCAddr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}
		if stopGRPC != nil {
			stopGRPC()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("HTTP shutdown error", "err", err)
		}
		logger.Info("studio server stopped")
		return nil
	},
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.New(int(cfg.StoreQuota)), nil
	case config.StorePostgres:
		return postgres.New(cfg.DatabaseURL, cfg.StoreQuota)
	default:
		return filestore.NewOS(cfg.DataDir, cfg.StoreQuota)
	}
}

// startSync starts the backup scheduler when a destination is configured.
func startSync(cfg *config.Config, backend store.Backend, logger *slog.Logger) *reelsync.Scheduler {
	if !cfg.SyncEnabled() {
		return nil
	}

	var dests []reelsync.Destination
	if cfg.SyncS3Bucket != "" {
		s3Dest, err := reelsync.NewS3Destination(context.Background(), reelsync.S3Options{
			Bucket:   cfg.SyncS3Bucket,
			Key:      cfg.SyncS3Key,
			Region:   cfg.SyncS3Region,
			Endpoint: cfg.SyncS3Endpoint,
		})
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync destination enabled", "destination", s3Dest.Name())
		}
	}
	if cfg.SyncGitRepo != "" {
		gitDest := reelsync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch)
		dests = append(dests, gitDest)
		logger.Info("sync destination enabled", "destination", gitDest.Name())
	}
	if len(dests) == 0 {
		return nil
	}

	scheduler := reelsync.NewScheduler(backend, dests, cfg.SyncInterval, logger)
	scheduler.Start()
	logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
	return scheduler
}
