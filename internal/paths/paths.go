// Package paths resolves the usertable configuration directory and the
// files kept in it.
package paths

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigDirName is the CWD-relative project directory.
const DefaultConfigDirName = ".usertable"

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "USERTABLE_CONFIG_DIR"

// Files kept in the configuration directory.
const (
	ConfigFileName   = "config.yaml"
	HistoryFileName  = "history"
	DatabaseFileName = "users.db"
)

const appName = "usertable"

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
// Linux:   $XDG_CONFIG_HOME/usertable (fallback ~/.config/usertable)
// macOS:   ~/Library/Application Support/usertable
// Windows: %APPDATA%/usertable
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > USERTABLE_CONFIG_DIR > $(CWD)/.usertable when it
// exists > DefaultConfigDir().
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
	info, err := os.Stat(local)
	switch {
	case err == nil && info.IsDir():
		return local, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", err
	}
	return DefaultConfigDir()
}

// ConfigFile returns the config.yaml path in dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// HistoryFile returns the REPL history path in dir.
func HistoryFile(dir string) string {
	return filepath.Join(dir, HistoryFileName)
}

// ResolveDatabasePath returns the SQLite database path following the
// precedence chain: flag > configured path > users.db in configDir.
func ResolveDatabasePath(flag, configured, configDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configured != "" {
		return filepath.Abs(configured)
	}
	return filepath.Join(configDir, DatabaseFileName), nil
}
