// Package paths resolves the jobb configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Working-directory relative directory names.
const (
	DefaultConfigDirName = ".jobb"
	DefaultDataDirName   = ".jobb-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "JOBB_CONFIG_DIR"
	EnvDataDir   = "JOBB_DATA_DIR"
)

const appName = "jobb"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/jobb (fallback ~/.config/jobb)
// macOS:   ~/Library/Application Support/jobb
// Windows: %APPDATA%/jobb
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > JOBB_CONFIG_DIR env > ./.jobb > DefaultConfigDir().
//
// The working-directory .jobb is used when it exists or when no platform
// directory can be determined.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	local := filepath.Join(cwd, DefaultConfigDirName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}
	if dir, err := DefaultConfigDir(); err == nil {
		return dir, nil
	}
	return local, nil
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > JOBB_DATA_DIR env > ./.jobb-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
