package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDataDir resolves the data directory in priority order:
// 1. CODEMATE_DATA environment variable
// 2. $XDG_DATA_HOME/codemate
// 3. ~/.local/share/codemate
func DefaultDataDir() (string, error) {
	if p := os.Getenv("CODEMATE_DATA"); p != "" {
		return p, os.MkdirAll(p, 0o755)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "codemate")
	return p, os.MkdirAll(p, 0o755)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
