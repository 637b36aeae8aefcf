package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Difficulty != nil || cfg.Serve.Port != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[practice]
char-sets = ["lowercase", "numbers"]
difficulty = "fast"
levels = 4
focus-weak = true
weak-factor = 3.5

[stats]
format = "yaml"

[serve]
port = 2222
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := cfg.Practice
	if p.CharSets == nil || strings.Join(*p.CharSets, ",") != "lowercase,numbers" {
		t.Fatalf("unexpected char sets: %v", p.CharSets)
	}
	if p.Difficulty == nil || *p.Difficulty != "fast" {
		t.Fatalf("unexpected difficulty: %v", p.Difficulty)
	}
	if p.Duration != nil {
		t.Fatalf("duration should be unset")
	}
	if p.Levels == nil || *p.Levels != 4 || p.FocusWeak == nil || !*p.FocusWeak {
		t.Fatalf("unexpected practice config: %+v", p)
	}
	if p.WeakFactor == nil || *p.WeakFactor != 3.5 {
		t.Fatalf("unexpected weak factor: %v", p.WeakFactor)
	}
	if cfg.Stats.Format == nil || *cfg.Stats.Format != "yaml" {
		t.Fatalf("unexpected stats format: %v", cfg.Stats.Format)
	}
	if cfg.Serve.Port == nil || *cfg.Serve.Port != 2222 || cfg.Serve.Host != nil {
		t.Fatalf("unexpected serve config: %+v", cfg.Serve)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nwords = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "snaketype", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "snaketype", "snaketype.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultHostKeyPath(); !strings.HasPrefix(got, filepath.Join("/tmp/data", "snaketype")) {
		t.Fatalf("unexpected host key path %q", got)
	}
}
