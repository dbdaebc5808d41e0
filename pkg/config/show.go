package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
)

// Render returns the effective configuration as TOML, the same shape
// the config file uses.
func (c *Config) Render() (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}
