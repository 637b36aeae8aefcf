// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Stats    StatsConfig    `toml:"stats"`
	Serve    ServeConfig    `toml:"serve"`
}

// PracticeConfig maps game settings. Nil fields were not set in the file.
type PracticeConfig struct {
	CharSets   *[]string `toml:"char-sets"`
	Difficulty *string   `toml:"difficulty"`
	Duration   *string   `toml:"duration"`
	Levels     *int      `toml:"levels"`
	FocusWeak  *bool     `toml:"focus-weak"`
	WeakTop    *int      `toml:"weak-top"`
	WeakFactor *float64  `toml:"weak-factor"`
	WeakWindow *int      `toml:"weak-window"`
}

// StatsConfig maps stats command settings.
type StatsConfig struct {
	Format *string `toml:"format"`
}

// ServeConfig maps SSH server settings.
type ServeConfig struct {
	Host    *string `toml:"host"`
	Port    *int    `toml:"port"`
	HostKey *string `toml:"host-key"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
