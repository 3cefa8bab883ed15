// Package config loads the daemon's static configuration: where its
// on-disk state lives, how it logs, and the handful of tunables the
// concurrency model leaves implementation-defined (dial timeout, watcher
// queue size, shutdown grace). A config file is layered over built-in
// defaults; SYNCR_-prefixed environment variables override only keys that
// the config file sets, and are not read when no config file is found.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the daemon's static configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Listen  ListenConfig  `mapstructure:"listen" yaml:"listen"`
	Watcher WatcherConfig `mapstructure:"watcher" yaml:"watcher"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// ListenConfig controls which addresses the transport binds.
type ListenConfig struct {
	Addrs []string `mapstructure:"addrs" yaml:"addrs"`
}

// WatcherConfig records the watcher queue size setting. The value is loaded
// and saved but not passed to the watcher, whose queue size is the fixed
// watcher.QueueCapacity.
type WatcherConfig struct {
	QueueCapacity int `mapstructure:"queue_capacity" yaml:"queue_capacity"`
}

// SessionConfig controls dialing and shutdown timing.
type SessionConfig struct {
	DialTimeout   time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace" yaml:"shutdown_grace"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// envPrefix namespaces every environment variable override: SYNCR_LOGGING_LEVEL,
// SYNCR_SESSION_DIAL_TIMEOUT, and so on. An override applies only to a key
// that the config file sets.
const envPrefix = "SYNCR"

// Load reads a config file (configPath, or the default location if empty)
// over built-in defaults. A SYNCR_-prefixed environment variable overrides
// a key the config file sets; keys absent from the file keep their
// defaults. When no config file is found, Load returns the defaults without
// reading the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if !found {
		return cfg, nil
	}

	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(ConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// Save writes cfg as YAML to path, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ConfigDir returns $XDG_CONFIG_HOME/syncr, or ~/.config/syncr, or "." if
// the home directory cannot be determined.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "syncr")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "syncr")
}

// SecretKeyPath returns the on-disk location of the long-lived identity
// seed.
func SecretKeyPath() string {
	return filepath.Join(ConfigDir(), "secret_key")
}

// DBDir returns the on-disk location of the embedded metadata store.
func DBDir() string {
	return filepath.Join(ConfigDir(), "db")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
