package config

// Analysis defaults.
const (
	DefaultAnalysisWorkers            = 0
	DefaultAnalysisMaxFileSize        = "1MiB"
	DefaultAnalysisTargetTypeMaxDepth = 0
	DefaultAnalysisFailOn             = "warning"
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// Observability defaults. Empty addresses disable the exporters.
const (
	DefaultOTLPEndpoint   = ""
	DefaultOTLPInsecure   = false
	DefaultPrometheusAddr = ""
	DefaultEnvironment    = ""
)
