// Package config loads the TOML configuration file and applies environment
// overrides. Precedence, lowest to highest: built-in defaults, config file,
// CODEMATE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"codemate/internal/storage"
)

// Config is the resolved application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "file" or "sqlite". The file backend supports change
	// watching and is the default; sqlite trades that for a single-file
	// store.
	Backend string `toml:"backend"`
	// Dir is the data directory. Empty means the XDG default.
	Dir string `toml:"dir"`
}

// LogConfig controls the structured log. The TUI owns the terminal, so
// logs go to a file rather than stderr.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() string {
	if v := os.Getenv("CODEMATE_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(xdgConfigHome(), "codemate", "config.toml")
}

// Load reads the TOML file at path (missing file is not an error), then
// applies env overrides on top of defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		Storage: StorageConfig{Backend: "file"},
		Log:     LogConfig{Level: "info"},
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.Storage.Dir == "" {
		dir, err := storage.DefaultDataDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.Storage.Dir = dir
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Storage.Dir, "codemate.log")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CODEMATE_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("CODEMATE_DATA"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("CODEMATE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CODEMATE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q (want file or sqlite)", c.Storage.Backend)
	}
	return nil
}

// SQLitePath returns the database file used by the sqlite backend.
func (c Config) SQLitePath() string {
	return filepath.Join(c.Storage.Dir, "codemate.db")
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}
