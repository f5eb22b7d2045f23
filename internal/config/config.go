// Package config loads the rawmail command configuration from an optional YAML
// file, with environment variables taking precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-rawmail/license"
	"github.com/zostay/go-rawmail/prepare"
)

// Environment variables read by Load and LoadFromFile.
const (
	EnvLicenseKey = "RAWMAIL_LICENSE_KEY"
	EnvHostname   = "RAWMAIL_HOSTNAME"
	EnvLogLevel   = "RAWMAIL_LOG_LEVEL"
)

// Config holds the complete command configuration.
type Config struct {
	License        LicenseConfig `yaml:"license"`
	Hostname       string        `yaml:"hostname"`
	BoundaryPrefix string        `yaml:"boundary_prefix"`
	Logging        LoggingConfig `yaml:"logging"`
}

// LicenseConfig holds the license key. When Enabled is false and no key is
// set, messages are not marked at all.
type LicenseConfig struct {
	Enabled bool   `yaml:"enabled"`
	Key     string `yaml:"key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load builds the configuration from defaults and environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile reads the YAML file at path as the base layer, then applies the
// environment variables. The file must exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvVars()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Logging.Level = "info"
}

func (c *Config) applyEnvVars() {
	if v := os.Getenv(EnvLicenseKey); v != "" {
		c.License.Key = v
	}
	if v := os.Getenv(EnvHostname); v != "" {
		c.Hostname = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// LicenseInfo returns the license to mark messages with, or nil when there is
// none.
func (c *Config) LicenseInfo() *license.Info {
	if !c.License.Enabled && c.License.Key == "" {
		return nil
	}
	return &license.Info{Key: c.License.Key}
}

// LogLevel maps the configured level name to a slog.Level. Unknown names mean
// info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options returns the prepare options matching the configuration.
func (c *Config) Options(logger *slog.Logger) []prepare.Option {
	var opts []prepare.Option
	if info := c.LicenseInfo(); info != nil {
		opts = append(opts, prepare.WithLicense(info))
	}
	if c.Hostname != "" {
		opts = append(opts, prepare.WithHostname(c.Hostname))
	}
	if c.BoundaryPrefix != "" {
		opts = append(opts, prepare.WithBoundaryPrefix(c.BoundaryPrefix))
	}
	if logger != nil {
		opts = append(opts, prepare.WithLogger(logger))
	}
	return opts
}
