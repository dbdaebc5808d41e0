// Package config loads the importer configuration. Built-in defaults
// come first, the user's config.toml overrides them and KICAD_IMPORT_*
// environment variables override both.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/paths"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "KICAD_IMPORT_"

// Config is the effective importer configuration.
type Config struct {
	// Source is the directory scanned for downloaded vendor zipfiles.
	Source string `koanf:"source" toml:"source"`
	// Zap deletes the source zipfile after a successful import.
	Zap       bool      `koanf:"zap" toml:"zap"`
	Libraries Libraries `koanf:"libraries" toml:"libraries"`
	Model     Model     `koanf:"model" toml:"model"`
}

// Libraries holds the local library directories imports write into.
type Libraries struct {
	Symbols    string `koanf:"symbols" toml:"symbols"`
	Footprints string `koanf:"footprints" toml:"footprints"`
	Models     string `koanf:"models" toml:"models"`
}

// Model configures how footprints reference installed 3D models.
type Model struct {
	Token string `koanf:"token" toml:"token"`
}

// Load builds the effective configuration from defaults, the config
// file at p.ConfigFilePath() and the environment.
func Load(p paths.Paths) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	configPath := p.ConfigFilePath()
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse %s", configPath)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	cfg.Source = paths.ExpandHome(cfg.Source)
	cfg.Libraries.Symbols = paths.ExpandHome(cfg.Libraries.Symbols)
	cfg.Libraries.Footprints = paths.ExpandHome(cfg.Libraries.Footprints)
	cfg.Libraries.Models = paths.ExpandHome(cfg.Libraries.Models)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps KICAD_IMPORT_LIBRARIES_SYMBOLS to libraries.symbols. The
// XDG directory overrides belong to the paths layer and are not
// configuration keys.
func envKey(s string) string {
	switch s {
	case paths.EnvConfigDir, paths.EnvStateDir, paths.EnvCacheDir:
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// Validate rejects configurations the importer cannot run with.
func (c *Config) Validate() error {
	missing := ""
	switch {
	case c.Source == "":
		missing = "source"
	case c.Libraries.Symbols == "":
		missing = "libraries.symbols"
	case c.Libraries.Footprints == "":
		missing = "libraries.footprints"
	case c.Libraries.Models == "":
		missing = "libraries.models"
	case c.Model.Token == "":
		missing = "model.token"
	}
	if missing != "" {
		return errors.Newf(errors.ErrConfigValid, "%s is not set", missing).
			WithDetail("key", missing)
	}
	return nil
}

// WriteDefault writes the built-in defaults to path so the user has a
// commented file to edit. Refuses to clobber an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrInvalidInput, "%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, defaultConfig, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}
