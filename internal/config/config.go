// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package config loads and validates clubward configuration from YAML
// files and command-line flags.
package config

import (
	"github.com/Masterminds/semver/v3"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/clubward/clubward/internal/credential"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `koanf:"url" json:"url" jsonschema:"description=PostgreSQL connection URL"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Format string `koanf:"format" json:"format,omitempty" jsonschema:"enum=json,enum=text,description=Log output format"`
	Level  string `koanf:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,description=Minimum log level"`
}

// ObservabilityConfig holds the metrics/health endpoint settings.
type ObservabilityConfig struct {
	// MetricsAddr is the metrics/health HTTP listen address. Empty
	// disables the observability server.
	MetricsAddr string `koanf:"metrics_addr" json:"metrics_addr,omitempty" jsonschema:"description=Metrics and health HTTP listen address; empty disables"`
}

// CredentialConfig holds knobs for temporary credential generation.
type CredentialConfig struct {
	TempPasswordLength int `koanf:"temp_password_length" json:"temp_password_length,omitempty" jsonschema:"minimum=4,description=Length of generated temporary passwords"`
}

// Config is the root configuration.
type Config struct {
	// MinVersion is the minimum clubward version this config file
	// requires, as a semver string. Empty skips the check.
	MinVersion    string              `koanf:"min_version" json:"min_version,omitempty" jsonschema:"description=Minimum clubward version this configuration requires"`
	Database      DatabaseConfig      `koanf:"database" json:"database,omitempty"`
	Logging       LoggingConfig       `koanf:"logging" json:"logging,omitempty"`
	Observability ObservabilityConfig `koanf:"observability" json:"observability,omitempty"`
	Credential    CredentialConfig    `koanf:"credential" json:"credential,omitempty"`
}

// Default returns the built-in defaults applied before file and flag
// loading.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Format: "json",
			Level:  "info",
		},
		Observability: ObservabilityConfig{
			MetricsAddr: "127.0.0.1:9100",
		},
		Credential: CredentialConfig{
			TempPasswordLength: credential.DefaultTempPasswordLength,
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, and an
// optional flag set, in increasing precedence. Flags use dotted paths
// matching the koanf keys (database.url, logging.format, ...).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.In("config").
				Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.In("config").
				Code("CONFIG_FLAGS_FAILED").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.In("config").
			Code("CONFIG_UNMARSHAL_FAILED").
			Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural constraints that schema validation cannot
// express against running state.
func (c *Config) Validate() error {
	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "text" {
		return oops.In("config").
			Code("CONFIG_INVALID").
			With("logging_format", c.Logging.Format).
			Errorf("logging.format must be json or text")
	}
	if c.Credential.TempPasswordLength != 0 && c.Credential.TempPasswordLength < credential.MinTempPasswordLength {
		return oops.In("config").
			Code("CONFIG_INVALID").
			With("temp_password_length", c.Credential.TempPasswordLength).
			Errorf("credential.temp_password_length must be at least %d", credential.MinTempPasswordLength)
	}
	return nil
}

// CheckVersion verifies the running binary satisfies the config's
// min_version. Development builds ("dev", empty) skip the check since
// they carry no comparable version.
func (c *Config) CheckVersion(binaryVersion string) error {
	if c.MinVersion == "" || binaryVersion == "" || binaryVersion == "dev" {
		return nil
	}

	minimum, err := semver.NewVersion(c.MinVersion)
	if err != nil {
		return oops.In("config").
			Code("CONFIG_INVALID").
			With("min_version", c.MinVersion).
			Errorf("min_version is not valid semver: %v", err)
	}
	current, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return oops.In("config").
			Code("CONFIG_INVALID").
			With("binary_version", binaryVersion).
			Errorf("binary version is not valid semver: %v", err)
	}
	if current.LessThan(minimum) {
		return oops.In("config").
			Code("CONFIG_VERSION_TOO_OLD").
			With("min_version", c.MinVersion).
			With("binary_version", binaryVersion).
			Errorf("configuration requires clubward >= %s, running %s", c.MinVersion, binaryVersion)
	}
	return nil
}
