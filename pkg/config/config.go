// Package config loads and validates surveycharts configuration from a YAML
// file, SURVEYCHARTS_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Sentinel validation errors.
var (
	ErrInvalidPort        = errors.New("invalid server port")
	ErrInvalidBackend     = errors.New("invalid chart backend")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("trace sample ratio must be within [0, 1]")
	ErrInvalidPrefStore   = errors.New("invalid preference store")
	ErrInvalidPrefFormat  = errors.New("invalid preference file format")
	ErrMissingPrefDir     = errors.New("file preference store needs a directory")
	ErrInvalidChartSize   = errors.New("chart size must be positive")
	ErrInvalidTimeout     = errors.New("timeouts must be positive")
)

// Chart backends.
const (
	BackendECharts = "echarts"
	BackendRaster  = "raster"
)

// Preference stores.
const (
	PrefStoreMemory = "memory"
	PrefStoreFile   = "file"
	PrefStoreCookie = "cookie"
)

const maxPort = 65535

// Config holds all surveycharts configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	Charts      ChartsConfig      `mapstructure:"charts"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// Backend renders the dashboard page: echarts or raster.
	Backend string `mapstructure:"backend"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SlogLevel converts Level to a slog level.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

// JSON reports whether logs are written as JSON.
func (l LoggingConfig) JSON() bool {
	return strings.EqualFold(l.Format, "json")
}

// TelemetryConfig holds OpenTelemetry and Prometheus settings.
type TelemetryConfig struct {
	ServiceName  string            `mapstructure:"service_name"`
	Environment  string            `mapstructure:"environment"`
	OTLPEndpoint string            `mapstructure:"otlp_endpoint"`
	OTLPHeaders  map[string]string `mapstructure:"otlp_headers"`
	OTLPInsecure bool              `mapstructure:"otlp_insecure"`
	SampleRatio  float64           `mapstructure:"sample_ratio"`
	DebugTrace   bool              `mapstructure:"debug_trace"`
	Prometheus   bool              `mapstructure:"prometheus"`
}

// PreferencesConfig selects where the theme preference is kept.
type PreferencesConfig struct {
	// Store is memory, file or cookie. The CLI treats cookie as file.
	Store      string `mapstructure:"store"`
	Dir        string `mapstructure:"dir"`
	Format     string `mapstructure:"format"`
	CookieName string `mapstructure:"cookie_name"`
}

// ChartsConfig tunes chart data and rendering.
type ChartsConfig struct {
	// DatasetsFile is an optional YAML file overriding built-in datasets.
	DatasetsFile string `mapstructure:"datasets_file"`
	// FailFast stops a render at the first failing chart.
	FailFast bool `mapstructure:"fail_fast"`
	// Width and Height size raster charts in pixels.
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// EChartsWidth and EChartsHeight size interactive charts in CSS units.
	EChartsWidth  string `mapstructure:"echarts_width"`
	EChartsHeight string `mapstructure:"echarts_height"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port))
	}

	if !slices.Contains([]string{BackendECharts, BackendRaster}, c.Server.Backend) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidBackend, c.Server.Backend))
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 ||
		c.Server.IdleTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, ErrInvalidTimeout)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level))
	}

	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Logging.Format)) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format))
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio))
	}

	errs = append(errs, c.Preferences.validate())

	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", ErrInvalidChartSize, c.Charts.Width, c.Charts.Height))
	}

	return errors.Join(errs...)
}

func (p PreferencesConfig) validate() error {
	switch p.Store {
	case PrefStoreMemory:
		return nil
	case PrefStoreFile, PrefStoreCookie:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPrefStore, p.Store)
	}

	if !slices.Contains([]string{"json", "yaml", "yml"}, strings.ToLower(p.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidPrefFormat, p.Format)
	}

	if p.Dir == "" {
		return ErrMissingPrefDir
	}

	return nil
}
