// Package observability wires tracing, metrics and structured logging for
// the surveycharts binaries.
package observability

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// AppMode is how the binary was launched. It is attached to every log line
// and to the telemetry resource.
type AppMode string

// Launch modes.
const (
	ModeCLI   AppMode = "cli"
	ModeMCP   AppMode = "mcp"
	ModeServe AppMode = "serve"
)

const (
	defaultServiceName     = "surveycharts"
	defaultShutdownTimeout = 5 * time.Second
)

// Config selects which exporters Init starts and how logs are written.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the gRPC collector address. Empty disables OTLP export
	// of both traces and metrics.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// PrometheusEnabled exposes metrics through Providers.MetricsHandler.
	PrometheusEnabled bool

	// DebugTrace samples every trace regardless of SampleRatio.
	DebugTrace  bool
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool
	// LogOutput receives log records. Nil means stderr, which keeps stdout
	// free for command output and the MCP stdio transport.
	LogOutput io.Writer

	ShutdownTimeout time.Duration
}

// DefaultConfig returns a configuration that exports nothing and logs text
// at info level.
func DefaultConfig() Config {
	return Config{
		ServiceName:     defaultServiceName,
		Mode:            ModeCLI,
		SampleRatio:     1,
		LogLevel:        slog.LevelInfo,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

func (c Config) logOutput() io.Writer {
	if c.LogOutput == nil {
		return os.Stderr
	}

	return c.LogOutput
}

func (c Config) exportsTraces() bool {
	return c.OTLPEndpoint != ""
}

func (c Config) exportsMetrics() bool {
	return c.OTLPEndpoint != "" || c.PrometheusEnabled
}
