package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Paths contains standard filesystem paths for the CLI.
type Paths struct {
	// ConfigFile is the path to the config file (~/.crml/config.yaml).
	ConfigFile string

	// HomeDir is the CRML home directory (~/.crml).
	HomeDir string
}

// DefaultPaths returns the default paths for the CLI.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	crmlHome := filepath.Join(homeDir, ".crml")

	return &Paths{
		ConfigFile: filepath.Join(crmlHome, "config.yaml"),
		HomeDir:    crmlHome,
	}, nil
}

// GetConfigFile returns the config file path.
// If CRML_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("CRML_CONFIG"); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// EnsureHomeDir creates the CRML home directory if it doesn't exist.
func EnsureHomeDir() error {
	paths, err := DefaultPaths()
	if err != nil {
		return err
	}
	return os.MkdirAll(paths.HomeDir, 0o755)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")), nil
	}
	return path, nil
}
