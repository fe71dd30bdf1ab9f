// Package commands implements the epcheck CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/checks"
	"github.com/Consensys/errorprone-checks/pkg/config"
	"github.com/Consensys/errorprone-checks/pkg/engine"
	"github.com/Consensys/errorprone-checks/pkg/javasrc"
	"github.com/Consensys/errorprone-checks/pkg/observability"
	"github.com/Consensys/errorprone-checks/pkg/tables"
	"github.com/Consensys/errorprone-checks/pkg/targettype"
	"github.com/Consensys/errorprone-checks/pkg/version"
)

// Persistent flag names shared by every subcommand.
const (
	FlagConfig  = "config"
	FlagTables  = "tables"
	FlagVerbose = "verbose"
	FlagQuiet   = "quiet"
)

// ExitError carries a process exit code without an error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// env is the wiring shared by subcommands: configuration, rule data,
// parser, rule registry and telemetry.
type env struct {
	cfg       *config.Config
	tabs      *tables.Tables
	parser    *javasrc.Parser
	registry  *checks.Registry
	providers observability.Providers
	checks    *observability.CheckMetrics
}

// newEnv loads configuration and rule data and starts telemetry for mode.
// The caller must call close.
func newEnv(cmd *cobra.Command, mode observability.AppMode) (*env, error) {
	configPath, _ := cmd.Flags().GetString(FlagConfig)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	tablesPath, _ := cmd.Flags().GetString(FlagTables)
	if tablesPath == "" {
		tablesPath = cfg.Tables.Path
	}

	tabs, err := loadTables(tablesPath)
	if err != nil {
		return nil, err
	}

	registry, err := checks.NewRegistry(checks.All(tabs, targettype.WithMaxDepth(cfg.Analysis.TargetTypeMaxDepth)))
	if err != nil {
		return nil, fmt.Errorf("build rule registry: %w", err)
	}

	providers, err := observability.Init(observabilityConfig(cmd, cfg, mode))
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	checkMetrics, err := observability.NewCheckMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &env{
		cfg:       cfg,
		tabs:      tabs,
		parser:    javasrc.NewParser(javasrc.WithHierarchy(tabs.Hierarchy())),
		registry:  registry,
		providers: providers,
		checks:    checkMetrics,
	}, nil
}

func loadTables(path string) (*tables.Tables, error) {
	if path == "" {
		return tables.Default(), nil
	}

	tabs, err := tables.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	return tabs, nil
}

func observabilityConfig(cmd *cobra.Command, cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.LogLevel = observability.ParseLogLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogOutput = cmd.ErrOrStderr()

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	// Scraping only makes sense for the long-running modes.
	obsCfg.Prometheus = mode != observability.ModeCLI && cfg.Observability.PrometheusAddr != ""

	if verbose, _ := cmd.Flags().GetBool(FlagVerbose); verbose {
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.TraceVerbose = true
	}

	if quiet, _ := cmd.Flags().GetBool(FlagQuiet); quiet {
		obsCfg.LogLevel = slog.LevelError
	}

	return obsCfg
}

// engine builds an engine over rules with the configured knobs.
func (e *env) engine(rules []*analysis.Rule) (*engine.Engine, error) {
	maxSize, err := e.cfg.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	return engine.New(e.parser, rules, e.engineOptions(maxSize)...), nil
}

func (e *env) engineOptions(maxSize int64) []engine.Option {
	return []engine.Option{
		engine.WithWorkers(e.cfg.Analysis.Workers),
		engine.WithMaxFileSize(maxSize),
		engine.WithLogger(e.providers.Logger),
		engine.WithTracer(e.providers.Tracer),
		engine.WithMetrics(e.checks),
	}
}

// serveMetrics starts the Prometheus endpoint when configured. The returned
// stop function shuts it down and waits for it.
func (e *env) serveMetrics(ctx context.Context) (func(), error) {
	if e.providers.MetricsHandler == nil {
		return func() {}, nil
	}

	srv, err := observability.NewMetricsServer(e.cfg.Observability.PrometheusAddr,
		e.providers.MetricsHandler, e.providers.Tracer, e.providers.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if serveErr := srv.Serve(ctx); serveErr != nil {
			e.providers.Logger.Warn("metrics server stopped", "error", serveErr)
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

func (e *env) close() {
	if err := e.providers.Shutdown(context.Background()); err != nil {
		e.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}
