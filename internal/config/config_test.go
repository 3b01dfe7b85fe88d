package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Features.WindowSize != nil {
		t.Error("expected zero config for missing file")
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestLoadConfig_Values(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[features]
window-size = 6
overs-per-innings = 50
output-path = "/tmp/features.csv"
chase-only = true

[ingest]
source-dir = "/data/matches"
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Features.WindowSize == nil || *cfg.Features.WindowSize != 6 {
		t.Errorf("WindowSize = %v, want 6", cfg.Features.WindowSize)
	}
	if cfg.Features.OversPerInnings == nil || *cfg.Features.OversPerInnings != 50 {
		t.Errorf("OversPerInnings = %v, want 50", cfg.Features.OversPerInnings)
	}
	if cfg.Features.ChaseOnly == nil || !*cfg.Features.ChaseOnly {
		t.Error("ChaseOnly = nil/false, want true")
	}
	if cfg.Ingest.SourceDir == nil || *cfg.Ingest.SourceDir != "/data/matches" {
		t.Errorf("SourceDir = %v, want /data/matches", cfg.Ingest.SourceDir)
	}
}

func TestLoadConfig_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[features\nwindow"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}
