package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ConfigDir returns the default config directory path.
func ConfigDir() string {
	home := resolveHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "docintel")
}

// EnsureConfigDirWithPerms creates the config directory with specified permissions.
// Use 0700 for secure directory permissions.
func EnsureConfigDirWithPerms(perms os.FileMode) error {
	return os.MkdirAll(ConfigDir(), perms)
}

// ConfigExists returns true if the config file exists at the default path.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigPath())
	return err == nil
}

// ConfigExistsAt returns true if a config file exists at the specified path.
func ConfigExistsAt(path string) bool {
	path = expandHome(path)
	_, err := os.Stat(path)
	return err == nil
}

// resolveHomeDir returns the current user's home directory, or "" if it
// cannot be determined.
func resolveHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// expandHome expands a leading "~" in path to the user's home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home := resolveHomeDir()
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
