package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agentxrp-backend/infrastructure/config"
	"agentxrp-backend/infrastructure/di"
	"agentxrp-backend/infrastructure/persistence/gormdb"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "agentxrp",
		Short:         "Reputation and tipping ledger for the agent social platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML config file (default $"+config.ConfigFileEnv+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or upgrade the database schema and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				return migrate(cmd.Context(), cfg)
			},
		},
	)
	return root
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      container.HTTPHandler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return run(ctx, srv, container, cfg.ShutdownTimeout)
}

// run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests and releases the container. A listener failure is
// returned to the caller.
func run(ctx context.Context, srv *http.Server, container *di.Container, shutdownTimeout time.Duration) error {
	logger := container.Logger

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("address", srv.Addr),
			zap.String("environment", container.Config.Environment),
			zap.String("database", container.Config.DatabaseDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			runErr = fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := container.Close(shutdownCtx); err != nil {
		logger.Error("Failed to release resources", zap.Error(err))
	}

	logger.Info("Server stopped")
	return runErr
}

func migrate(ctx context.Context, cfg *config.Config) error {
	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, cleanup, err := di.ProvideStore(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	version, err := store.CurrentSchemaVersion(ctx)
	if err != nil {
		return err
	}

	logger.Info("Schema is up to date",
		zap.String("driver", cfg.DatabaseDriver),
		zap.Int("version", version),
		zap.Int("latest", gormdb.LatestSchemaVersion),
	)
	return nil
}
