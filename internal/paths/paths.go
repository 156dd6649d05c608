// Package paths resolves configuration and data directory locations.
//
// A catalog lives next to the project it tracks (./.shelf-db) unless a flag,
// config.yaml, SHELF_DATA_DIR, or --global points elsewhere. Configuration
// is per user.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user directories under the platform roots.
const appName = "shelf"

// DefaultDataDirName is the CWD-relative data directory.
const DefaultDataDirName = ".shelf-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SHELF_CONFIG_DIR"
	EnvDataDir   = "SHELF_DATA_DIR"
)

// platform holds the OS probes, replaced in tests.
var platform = struct {
	goos          string
	getenv        func(string) string
	getwd         func() (string, error)
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	getenv:        os.Getenv,
	getwd:         os.Getwd,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/shelf (fallback ~/.config/shelf)
// macOS:   ~/Library/Application Support/shelf
// Windows: %APPDATA%/shelf
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the per-user data directory, used by --global and
// when the working directory is unavailable.
//
// Linux:   $XDG_DATA_HOME/shelf (fallback ~/.local/share/shelf)
// macOS:   ~/Library/Application Support/shelf
// Windows: %APPDATA%/shelf
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// userDir resolves appName under the XDG variable xdgVar on Linux, falling
// back to homeRel under the home directory. Other platforms share
// os.UserConfigDir for config and data.
func userDir(xdgVar, homeRel string) (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := platform.getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platform.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > SHELF_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := platform.getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > SHELF_DATA_DIR env > DefaultDataDir() when global
// is set > $(CWD)/.shelf-db. If the working directory cannot be determined
// the per-user directory is used instead.
func ResolveDataDir(flag, configYAMLValue string, global bool) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := platform.getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	if global {
		return DefaultDataDir()
	}
	cwd, err := platform.getwd()
	if err != nil {
		return DefaultDataDir()
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
