// Package app - constants.go centralizes magic strings and configuration values.
package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory and file names for the ijc configuration.
const (
	// GlobalConfigDir is the application subdirectory within the OS config directory.
	GlobalConfigDir = "ijc"

	// ConfigFileName is the base name of the optional config file.
	ConfigFileName = "config"

	// ProfilesDir is the subdirectory for per-server profile files.
	ProfilesDir = "servers"

	// KeychainService is the service name used in the OS keychain.
	KeychainService = "ijc"

	// EnvPrefix prefixes every environment variable viper reads.
	EnvPrefix = "IJC"

	// DefaultServerURL is the module server used when none is configured.
	DefaultServerURL = "http://localhost:8080"
)

// GlobalConfigPath returns the platform-appropriate global config directory
// (e.g. ~/.config/ijc on Linux, ~/Library/Application Support/ijc on macOS).
func GlobalConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(configDir, GlobalConfigDir), nil
}

// File permissions.
const (
	// DirPerm is the permission mode for directories.
	DirPerm = 0o755

	// FilePerm is the permission mode for regular files.
	FilePerm = 0o644
)

// Run status values shown by the browser.
const (
	RunStatusIdle    = "idle"
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)
