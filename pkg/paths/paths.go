// Package paths provides centralized path handling for kicad-import.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for kicad-import
	EnvConfigDir = "KICAD_IMPORT_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for kicad-import
	EnvStateDir = "KICAD_IMPORT_STATE_DIR"

	// EnvCacheDir overrides the XDG cache directory for kicad-import
	EnvCacheDir = "KICAD_IMPORT_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for kicad-import specific files
	AppDirName = "kicad-import"

	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.toml"

	// LedgerDirName is the subdirectory for exported modification ledgers
	LedgerDirName = "ledger"

	// LogFileName is the name of the log file
	LogFileName = "kicad-import.log"
)

// Paths provides centralized path management for kicad-import
type Paths interface {
	ConfigDir() string
	ConfigFilePath() string
	StateDir() string
	CacheDir() string
	LedgerDir() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

type paths struct {
	xdgConfig string
	xdgCache  string
	xdgState  string
}

// New creates a new Paths instance from the XDG environment,
// respecting the KICAD_IMPORT_* overrides.
func New() (Paths, error) {
	p := &paths{}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, AppDirName)
	}

	// XDG state home needs a manual check, the library predates it
	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = expandHome(stateDir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, AppDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", AppDirName)
	}

	return p, nil
}

// ConfigDir returns the XDG config directory for kicad-import
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// ConfigFilePath returns the path to the configuration file
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// StateDir returns the XDG state directory for kicad-import
func (p *paths) StateDir() string {
	return p.xdgState
}

// CacheDir returns the XDG cache directory for kicad-import
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// LedgerDir returns the directory for exported modification ledgers
func (p *paths) LedgerDir() string {
	return filepath.Join(p.xdgState, LedgerDirName)
}

// LogFilePath returns the path to the kicad-import log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := expandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}
