package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/bomconv-go/internal/config"
	"github.com/ukaji3/bomconv-go/internal/logging"
	"github.com/ukaji3/bomconv-go/internal/metrics"
	"github.com/ukaji3/bomconv-go/internal/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Long: `serve starts the HTTP API (POST /api/process, /api/sheets, /api/export).

Configuration is read from the optional --config YAML file and BOMCONV_* environment
variables; a .env file in the working directory is loaded first when present.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	envLoaded := godotenv.Load() == nil

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("configuration loaded",
		zap.Bool("dotenv", envLoaded),
		zap.String("addr", cfg.Addr()),
		zap.Int64("upload_max_file_size", cfg.Upload.MaxFileSize),
		zap.Int("upload_max_concurrent", cfg.Upload.MaxConcurrent),
		zap.Duration("upload_timeout", cfg.Upload.Timeout),
	)

	srv := server.New(cfg, logger, metrics.New())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-sigCtx.Done():
		logger.Info("shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errCh
}
