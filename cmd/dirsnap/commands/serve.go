package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/dirsnap/internal/logger"
	"github.com/marmos91/dirsnap/internal/telemetry"
	"github.com/marmos91/dirsnap/pkg/api"
	"github.com/marmos91/dirsnap/pkg/config"
	"github.com/marmos91/dirsnap/pkg/metrics"
	"github.com/marmos91/dirsnap/pkg/scan"
	"github.com/spf13/cobra"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/dirsnap/pkg/metrics/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve directory listings over HTTP",
	Long: `Start the dirsnap HTTP API with the specified configuration.

Endpoints:
  GET /health                  Liveness probe
  GET /health/ready            Readiness probe (allowed roots are scannable)
  GET /api/v1/names?path=      Entry names of a directory
  GET /api/v1/contents?path=   Entries with metadata
  GET /metrics                 Prometheus metrics (when enabled)

Logging settings are reloaded when the configuration file changes.

Examples:
  # Serve with the default configuration
  dirsnap serve

  # Serve with a custom config file
  dirsnap serve --config /etc/dirsnap/config.yaml

  # Override settings with environment variables
  DIRSNAP_SERVER_PORT=9000 DIRSNAP_SCAN_ALLOWED_ROOTS=/srv dirsnap serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, cfg.TelemetryConfig(Version))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		// ctx is cancelled by now; flushing needs a live context.
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(cfg.ProfilingConfig(Version))
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
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	}

	dedicatedMetrics := cfg.Metrics.Enabled && cfg.Metrics.Port != 0 && cfg.Metrics.Port != cfg.Server.Port
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		defer metrics.Reset()
		logger.Info("Metrics enabled", "port", metricsPort(cfg))
	}

	scanner := scan.New(cfg.ScanConfig(), metrics.NewScanMetrics())
	if roots := scanner.Roots(); len(roots) > 0 {
		logger.Info("Scans restricted to allowed roots", "roots", roots)
		if err := scanner.CheckRoots(ctx); err != nil {
			logger.Warn("Some allowed roots cannot be scanned", logger.Err(err))
		}
	} else {
		logger.Warn("No allowed roots configured; any readable directory can be listed")
	}

	apiServer := api.NewServer(api.APIConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MetricsEnabled:  cfg.Metrics.Enabled && !dedicatedMetrics,
	}, scanner, metrics.NewHTTPMetrics())

	errChan := make(chan error, 2)
	running := 1
	go func() { errChan <- apiServer.Start(ctx) }()

	if dedicatedMetrics {
		running++
		metricsServer := metrics.NewServer(cfg.Server.Host, cfg.Metrics.Port)
		go func() { errChan <- metricsServer.Start(ctx) }()
	}

	if path := watchedConfigFile(); path != "" {
		go func() {
			if err := config.Watch(ctx, path, applyLogging); err != nil {
				logger.Warn("Configuration reload disabled", logger.ConfigFile(path), logger.Err(err))
			}
		}()
	}

	logger.Info("Server is running. Press Ctrl+C to stop.")

	var firstErr error
	for ; running > 0; running-- {
		if err := <-errChan; err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logger.Error("Server error", logger.Err(err))
			// Bring the other listener down too.
			cancel()
		}
	}
	if firstErr != nil {
		return firstErr
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// applyLogging re-applies the reloadable logging settings.
func applyLogging(cfg *config.Config) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		logger.Warn("Invalid log level in reloaded configuration", logger.Err(err))
	}
	if err := logger.SetFormat(cfg.Logging.Format); err != nil {
		logger.Warn("Invalid log format in reloaded configuration", logger.Err(err))
	}
}

// watchedConfigFile returns the configuration file in use, or "" when
// running on defaults.
func watchedConfigFile() string {
	if f := GetConfigFile(); f != "" {
		if _, err := os.Stat(f); err == nil {
			return f
		}
		return ""
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return ""
}

func metricsPort(cfg *config.Config) int {
	if cfg.Metrics.Port != 0 {
		return cfg.Metrics.Port
	}
	return cfg.Server.Port
}
