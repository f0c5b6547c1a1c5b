// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for diagfs binaries.
//
// Configuration is loaded from a single file specified by:
//   - DIAGFS_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for the diagnostics daemon.
type Config struct {
	// Mountpoint is the directory where the diagnostics filesystem
	// is mounted. Created if it does not exist.
	Mountpoint string `yaml:"mountpoint"`

	// AllowOther permits other users to read the mount. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool `yaml:"allow_other"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Fixtures lists device fixture files to instantiate at startup,
	// one device per file. YAML or JSONC.
	Fixtures []string `yaml:"fixtures"`
}

// Default returns the default configuration. These defaults exist so
// every field has a sensible zero-value before the config file is
// merged in, not as a substitute for the file.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Mountpoint: filepath.Join(homeDir, ".cache", "diagfs", "mnt"),
		LogLevel:   "info",
	}
}

// Load loads configuration from the DIAGFS_CONFIG environment
// variable. There are no fallbacks: if DIAGFS_CONFIG is not set, this
// fails.
func Load() (*Config, error) {
	configPath := os.Getenv("DIAGFS_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("DIAGFS_CONFIG environment variable not set; " +
			"set it to the path of your diagfs.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The file is
// decoded strictly: unknown keys are an error, so typos fail loudly
// instead of silently falling back to defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.expandVariables()

	if _, err := cfg.SlogLevel(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// SlogLevel converts the configured log level to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
}

// expandVariables expands ${HOME} in path fields for portability.
// This is the only expansion performed: environment variables never
// override config values.
func (c *Config) expandVariables() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}
	expand := func(path string) string {
		return strings.ReplaceAll(path, "${HOME}", homeDir)
	}
	c.Mountpoint = expand(c.Mountpoint)
	for i, fixture := range c.Fixtures {
		c.Fixtures[i] = expand(fixture)
	}
}
