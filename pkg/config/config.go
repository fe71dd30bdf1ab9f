// Package config provides YAML-based project configuration for epcheck.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
)

// Config is the top-level configuration struct for epcheck.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Rules         RulesConfig         `mapstructure:"rules"`
	Analysis      AnalysisConfig      `mapstructure:"analysis"`
	Tables        TablesConfig        `mapstructure:"tables"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// RulesConfig selects rules by exact name or glob.
type RulesConfig struct {
	Enabled  []string `mapstructure:"enabled"`
	Disabled []string `mapstructure:"disabled"`
}

// AnalysisConfig holds the engine knobs.
type AnalysisConfig struct {
	MaxFileSize string `mapstructure:"max_file_size"`
	FailOn      string `mapstructure:"fail_on"`
	// Workers bounds concurrent units; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
	// TargetTypeMaxDepth bounds the target-type parent walk; 0 is unbounded.
	TargetTypeMaxDepth int `mapstructure:"target_type_max_depth"`
}

// TablesConfig points at an alternative rule data document.
type TablesConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds telemetry exporter settings.
type ObservabilityConfig struct {
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusAddr string `mapstructure:"prometheus_addr"`
	Environment    string `mapstructure:"environment"`
	OTLPInsecure   bool   `mapstructure:"otlp_insecure"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("analysis.workers must be non-negative")
	// ErrInvalidMaxFileSize indicates the max file size is unparsable or zero.
	ErrInvalidMaxFileSize = errors.New("analysis.max_file_size must be a positive byte size")
	// ErrInvalidMaxDepth indicates the target-type depth is negative.
	ErrInvalidMaxDepth = errors.New("analysis.target_type_max_depth must be non-negative")
	// ErrInvalidFailOn indicates an unknown severity name.
	ErrInvalidFailOn = errors.New("analysis.fail_on must be a severity")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidLogFormat indicates an unknown log format.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	analysisErr := c.validateAnalysis()
	if analysisErr != nil {
		return analysisErr
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if !slices.Contains(logFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.Analysis.TargetTypeMaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if _, err := c.MaxFileSizeBytes(); err != nil {
		return err
	}

	if _, err := c.FailOnSeverity(); err != nil {
		return err
	}

	return nil
}

// MaxFileSizeBytes parses analysis.max_file_size ("1MiB", "512 KB", "2000000").
func (c *Config) MaxFileSizeBytes() (int64, error) {
	size, err := humanize.ParseBytes(c.Analysis.MaxFileSize)
	if err != nil || size == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxFileSize, c.Analysis.MaxFileSize)
	}

	return int64(min(size, uint64(maxFileSizeCap))), nil
}

// FailOnSeverity parses analysis.fail_on.
func (c *Config) FailOnSeverity() (analysis.Severity, error) {
	sev, err := analysis.ParseSeverity(c.Analysis.FailOn)
	if err != nil {
		return analysis.Suggestion, fmt.Errorf("%w: %w", ErrInvalidFailOn, err)
	}

	return sev, nil
}

// maxFileSizeCap keeps the parsed size representable as int64.
const maxFileSizeCap = 1 << 62
