// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

// Package config loads mcjar CLI settings from defaults, a config file,
// MCJAR_* environment variables and command-line flags, in rising priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "mcjar"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "mcjar"
	// EnvPrefix prefixes environment overrides, e.g. MCJAR_LOG_LEVEL.
	EnvPrefix = "MCJAR"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by validation failures.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrConfigNotFound means an explicitly requested config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")
)

// supportedExts lists config file extensions probed in order.
var supportedExts = []string{"yaml", "yml", "toml", "json"}

type (
	// Config is the effective CLI configuration.
	Config struct {
		// Language is the target translation language code.
		Language string `json:"language" mapstructure:"language"`
		// Output selects the result encoding: json or yaml.
		Output string `json:"output" mapstructure:"output"`
		// Skip lists gitignore-style patterns for entries hidden from archive walks.
		Skip []string `json:"skip" mapstructure:"skip"`
		// Log configures the structured logger.
		Log LogConfig `json:"log" mapstructure:"log"`
		// Rewrite configures archive write-back.
		Rewrite RewriteConfig `json:"rewrite" mapstructure:"rewrite"`
		// MaxEntrySize bounds one in-memory entry read in bytes.
		MaxEntrySize int64 `json:"max_entry_size" mapstructure:"max_entry_size"`
		// Workers bounds concurrent archives in batch commands; 0 means GOMAXPROCS.
		Workers int `json:"workers" mapstructure:"workers"`
	}

	// LogConfig configures the structured logger.
	LogConfig struct {
		// Level is one of debug, info, warn, error.
		Level string `json:"level" mapstructure:"level"`
		// Format is one of text, json, logfmt.
		Format string `json:"format" mapstructure:"format"`
	}

	// RewriteConfig configures archive write-back.
	RewriteConfig struct {
		// BackupKeep is the number of backup generations kept next to the archive.
		BackupKeep int `json:"backup_keep" mapstructure:"backup_keep"`
		// Verify compares rewritten payloads with their sources before the swap.
		Verify bool `json:"verify" mapstructure:"verify"`
	}

	// LoadOptions controls where configuration is read from.
	LoadOptions struct {
		// Flags are bound over file and environment values when changed.
		Flags *pflag.FlagSet
		// ConfigFilePath is an explicit config file; it must exist when set.
		ConfigFilePath string
		// ConfigDirPath overrides the user config directory lookup.
		ConfigDirPath string
	}
)

// flagBindings maps config keys to CLI flag names.
var flagBindings = map[string]string{
	"language":            "language",
	"output":              "output",
	"workers":             "workers",
	"max_entry_size":      "max-entry-size",
	"skip":                "skip",
	"log.level":           "log-level",
	"log.format":          "log-format",
	"rewrite.backup_keep": "backup-keep",
	"rewrite.verify":      "verify",
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Language:     "ja_jp",
		Output:       "json",
		MaxEntrySize: 64 * 1024 * 1024,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigDir returns the per-user mcjar configuration directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	return filepath.Join(base, AppName), nil
}

// Load resolves configuration and returns it with the config file path used ("" for none).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("language", defaults.Language)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("max_entry_size", defaults.MaxEntrySize)
	v.SetDefault("skip", []string{})
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("rewrite.backup_keep", defaults.Rewrite.BackupKeep)
	v.SetDefault("rewrite.verify", defaults.Rewrite.Verify)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		v.SetConfigFile(resolvedPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", resolvedPath, err)
		}
	}

	if opts.Flags != nil {
		for key, name := range flagBindings {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}

			if err := v.BindPFlag(key, flag); err != nil {
				return nil, "", fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

// resolveConfigFile picks the explicit file, else the first mcjar.<ext> in the
// config directory, else the first in the working directory.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigFilePath)
		}

		return opts.ConfigFilePath, nil
	}

	dirs := make([]string, 0, 2)
	if opts.ConfigDirPath != "" {
		dirs = append(dirs, opts.ConfigDirPath)
	} else if dir, err := ConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, ".")

	for _, dir := range dirs {
		for _, ext := range supportedExts {
			candidate := filepath.Join(dir, ConfigFileName+"."+ext)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}

	return "", nil
}

// Validate checks enumerated and non-negative settings.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Language) == "" {
		errs = append(errs, errors.New("language must not be empty"))
	}
	if !slices.Contains([]string{"json", "yaml"}, c.Output) {
		errs = append(errs, fmt.Errorf("output %q: want json or yaml", c.Output))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level))
	}
	if !slices.Contains([]string{"text", "json", "logfmt"}, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q: want text, json or logfmt", c.Log.Format))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d: must not be negative", c.Workers))
	}
	if c.MaxEntrySize < 0 {
		errs = append(errs, fmt.Errorf("max_entry_size %d: must not be negative", c.MaxEntrySize))
	}
	if c.Rewrite.BackupKeep < 0 {
		errs = append(errs, fmt.Errorf("rewrite.backup_keep %d: must not be negative", c.Rewrite.BackupKeep))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
