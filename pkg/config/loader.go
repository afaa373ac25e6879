package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = "surveycharts"
	configType      = "yaml"
	envPrefix       = "SURVEYCHARTS"
	envKeySeparator = "_"
	systemConfigDir = "/etc/surveycharts"
	prefsDirName    = "surveycharts"
	fallbackPrefDir = ".surveycharts"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise surveycharts.yaml is searched in CWD, ./config and
// /etc/surveycharts. A missing config file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath(systemConfigDir)
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// DefaultPreferencesDir returns the per-user directory preference files are
// kept in.
func DefaultPreferencesDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return fallbackPrefDir
	}

	return filepath.Join(dir, prefsDirName)
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("server.host", DefaultServerHost)
	viperCfg.SetDefault("server.port", DefaultServerPort)
	viperCfg.SetDefault("server.read_timeout", DefaultReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultWriteTimeout)
	viperCfg.SetDefault("server.idle_timeout", DefaultIdleTimeout)
	viperCfg.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	viperCfg.SetDefault("server.backend", DefaultServerBackend)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.service_name", DefaultServiceName)
	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("telemetry.debug_trace", false)
	viperCfg.SetDefault("telemetry.prometheus", DefaultPrometheus)

	viperCfg.SetDefault("preferences.store", DefaultPrefStore)
	viperCfg.SetDefault("preferences.dir", DefaultPreferencesDir())
	viperCfg.SetDefault("preferences.format", DefaultPrefFormat)
	viperCfg.SetDefault("preferences.cookie_name", DefaultCookieName)

	viperCfg.SetDefault("charts.datasets_file", "")
	viperCfg.SetDefault("charts.fail_fast", DefaultFailFast)
	viperCfg.SetDefault("charts.width", DefaultChartWidth)
	viperCfg.SetDefault("charts.height", DefaultChartHeight)
	viperCfg.SetDefault("charts.echarts_width", DefaultEChartsWidth)
	viperCfg.SetDefault("charts.echarts_height", DefaultEChartsHeight)
}
