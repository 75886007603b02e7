package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns the application default paths, keyed by name:
// base_dir, config_path, and db_name.
func GetDefaults() (map[string]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	baseDir := filepath.Join(home, ".wcdb")
	return map[string]string{
		"base_dir":    baseDir,
		"config_path": filepath.Join(baseDir, "config.toml"),
		"db_name":     "wc.db",
	}, nil
}
