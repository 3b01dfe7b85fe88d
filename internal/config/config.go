// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Features FeaturesConfig `toml:"features"`
	Ingest   IngestConfig   `toml:"ingest"`
}

// FeaturesConfig maps feature-derivation settings.
type FeaturesConfig struct {
	WindowSize      *int    `toml:"window-size"`
	OversPerInnings *int    `toml:"overs-per-innings"`
	OutputPath      *string `toml:"output-path"`
	ChaseOnly       *bool   `toml:"chase-only"`
}

// IngestConfig maps ingestion settings.
type IngestConfig struct {
	SourceDir *string `toml:"source-dir"`
}

// DefaultConfigPath returns ~/.cricmetrics/config.toml, or a relative
// fallback when the home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".cricmetrics", "config.toml")
}

// DefaultDBPath returns ~/.cricmetrics/cricmetrics.db, or a relative
// fallback when the home directory cannot be resolved.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cricmetrics.db"
	}
	return filepath.Join(home, ".cricmetrics", "cricmetrics.db")
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
