// Package config resolves command settings from flags, environment, an
// optional config file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/LegacyCodeHQ/bundlegraph/internal/logging"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "BUNDLEGRAPH"
	DefaultConfigFile = ".bundlegraph.yaml"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyLogLevel         = "log-level"
	KeyLogFormat        = "log-format"
	KeyFormat           = "format"
	KeyStrictMembership = "strict-membership"
	KeyWatchPort        = "watch.port"
	KeyWatchDebounce    = "watch.debounce"
)

// Config is the resolved configuration.
type Config struct {
	LogLevel         string      `mapstructure:"log-level"`
	LogFormat        string      `mapstructure:"log-format"`
	Format           string      `mapstructure:"format"`
	StrictMembership bool        `mapstructure:"strict-membership"`
	Watch            WatchConfig `mapstructure:"watch"`
}

// WatchConfig configures the watch server.
type WatchConfig struct {
	Port     int           `mapstructure:"port"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// New returns a viper instance with defaults and environment lookups installed.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, logging.FormatConsole)
	v.SetDefault(KeyFormat, "dot")
	v.SetDefault(KeyStrictMembership, false)
	v.SetDefault(KeyWatchPort, 4900)
	v.SetDefault(KeyWatchDebounce, 300*time.Millisecond)
}

// ReadFile merges the YAML config file at path into v. An empty path reads
// DefaultConfigFile if it exists; an explicit path must exist.
func ReadFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values that have a fixed set of options or a range.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format: %s (valid options: %s, %s)", c.LogFormat, logging.FormatConsole, logging.FormatJSON)
	}
	if c.Watch.Port < 0 || c.Watch.Port > 65535 {
		return fmt.Errorf("watch.port must be between 0 and 65535, got %d", c.Watch.Port)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}
