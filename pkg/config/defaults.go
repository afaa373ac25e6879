package config

import "time"

// Server defaults.
const (
	DefaultServerHost      = "127.0.0.1"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultServerBackend   = BackendECharts
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultServiceName = "surveycharts"
	DefaultSampleRatio = 1.0
	DefaultPrometheus  = true
)

// Preference defaults.
const (
	DefaultPrefStore  = PrefStoreFile
	DefaultPrefFormat = "yaml"
	DefaultCookieName = "surveycharts_theme"
)

// Chart defaults.
const (
	DefaultChartWidth    = 800
	DefaultChartHeight   = 480
	DefaultEChartsWidth  = "100%"
	DefaultEChartsHeight = "360px"
	DefaultFailFast      = false
)
