// Package config loads the application configuration shared by the map
// awareness commands.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MAPAWARE_LOGLEVEL.
const EnvPrefix = "MAPAWARE"

// Config holds the application settings. Module settings (colors, radius) live
// in the per-client settings store, not here.
type Config struct {
	LogLevel       string        `mapstructure:"logLevel"`
	LogFormat      string        `mapstructure:"logFormat"`
	LogsDir        string        `mapstructure:"logsDir"`
	SceneFile      string        `mapstructure:"sceneFile"`
	SettingsFile   string        `mapstructure:"settingsFile"`
	WindowWidth    int           `mapstructure:"windowWidth"`
	WindowHeight   int           `mapstructure:"windowHeight"`
	DebounceWindow time.Duration `mapstructure:"debounceWindow"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")
	v.SetDefault("logsDir", "")
	v.SetDefault("sceneFile", "")
	v.SetDefault("settingsFile", "")
	v.SetDefault("windowWidth", 1280)
	v.SetDefault("windowHeight", 800)
	v.SetDefault("debounceWindow", 100*time.Millisecond)
}

// Load reads configuration from path (JSON, TOML or YAML by extension) on top of
// defaults and environment overrides. An empty path uses defaults only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.DebounceWindow <= 0 {
		return Config{}, fmt.Errorf("debounceWindow must be positive, got %s", cfg.DebounceWindow)
	}
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		return Config{}, fmt.Errorf("window size must be positive, got %dx%d", cfg.WindowWidth, cfg.WindowHeight)
	}
	return cfg, nil
}
