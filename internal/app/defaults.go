package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - PLAYBOOK_CONFIG_PATH: config file location (default: ~/.config/playbook.toml)
//   - PLAYBOOK_HOME: base directory for playbook data (default: ~/.local/share/playbook)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking PLAYBOOK_CONFIG_PATH
// first, then falling back to the default ~/.config/playbook.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("PLAYBOOK_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "playbook.toml"), nil
}

// getBaseDir returns the base directory for playbook data, checking
// PLAYBOOK_HOME first, then falling back to the XDG default
// ~/.local/share/playbook.
func getBaseDir() (string, error) {
	if path := os.Getenv("PLAYBOOK_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "playbook"), nil
}
