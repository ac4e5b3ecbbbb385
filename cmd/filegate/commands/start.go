package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/internal/telemetry"
	"github.com/marmos91/filegate/pkg/api"
	"github.com/marmos91/filegate/pkg/api/middleware"
	"github.com/marmos91/filegate/pkg/auth"
	"github.com/marmos91/filegate/pkg/config"
	"github.com/marmos91/filegate/pkg/metrics"
	prommetrics "github.com/marmos91/filegate/pkg/metrics/prometheus"
	"github.com/marmos91/filegate/pkg/store"
	"github.com/marmos91/filegate/pkg/upload"
)

const serviceName = "filegate"

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the filegate server",
	Long: `Start the filegate server in the foreground.

The configuration file is optional: without one, defaults apply and the
environment can still override every setting. FILES_DIR, API_KEY and PORT
are honoured alongside their FILEGATE_* equivalents.

Examples:
  # Start with the default config location
  filegate start

  # Start with a custom config file
  filegate start --config /etc/filegate/config.yaml

  # Start from the environment only
  FILES_DIR=/srv/files API_KEY=changeme PORT=8080 filegate start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := telemetryShutdown(flushCtx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	var (
		storeMetrics store.Metrics
		httpMetrics  middleware.HTTPMetrics
	)
	if cfg.Metrics.Enabled {
		reg := metrics.InitRegistry()
		storeMetrics = prommetrics.NewStoreMetrics(reg)
		httpMetrics = prommetrics.NewHTTPMetrics(reg)
	}

	fileStore, err := store.Open(cfg.Storage.Store(), upload.NewPolicy(cfg.Upload), storeMetrics)
	if err != nil {
		return err
	}
	defer func() { _ = fileStore.Close() }()
	logger.Info("Storage root ready", logger.KeyRoot, fileStore.Root())

	gate := auth.NewGate(cfg.Auth.APIKey)
	if !gate.Configured() {
		logger.Warn("No API key configured: every request will be rejected",
			"hint", fmt.Sprintf("set %s_AUTH_API_KEY or %s", config.EnvPrefix, config.EnvAPIKey))
	}

	apiServer := api.NewServer(cfg.Server, fileStore, gate, httpMetrics)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.Start(gctx)
	})
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, metrics.GetRegistry(), fileStore.Healthcheck)
		g.Go(func() error {
			return metricsServer.Start(gctx)
		})
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	}

	logger.Info("Server is running. Press Ctrl+C to stop.", "port", apiServer.Port())

	err = g.Wait()
	if ctx.Err() != nil {
		logger.Info("Shutdown signal received, server stopped")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", logger.Err(err))
		return err
	}
	return nil
}
