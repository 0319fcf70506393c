// Package config loads and saves the global templative configuration.
//
// The config is total by construction: every option has a compiled-in
// default, a missing file yields pure defaults, and loading fills any
// field the file left out. Downstream code can therefore treat every
// field as set.
package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/types"
)

// Version is the current config schema version. Files written by a
// newer templative are rejected instead of silently misread.
const Version = 1

// Config holds the global defaults layered under template overrides and
// CLI flags.
type Config struct {
	Version      int               `toml:"version"`
	Color        types.ColorMode   `toml:"color"`
	Git          types.GitMode     `toml:"git"`
	WriteMode    types.WriteMode   `toml:"write-mode"`
	Symlinks     types.SymlinkMode `toml:"symlinks"`
	Exclude      []string          `toml:"exclude"`
	UpdateOnInit types.UpdateMode  `toml:"update-on-init"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Version:      Version,
		Color:        types.ColorAuto,
		Git:          types.GitFresh,
		WriteMode:    types.WriteStrict,
		Symlinks:     types.SymlinkDefault,
		Exclude:      []string{".DS_Store"},
		UpdateOnInit: types.UpdateNever,
	}
}

// Load reads the config from the standard location, writing the default
// file on first run so users have something to edit.
func Load() (Config, error) {
	path := paths.ConfigFilePath()
	cfg, err := LoadFrom(path)
	if err != nil {
		return Config{}, err
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if saveErr := cfg.SaveTo(path); saveErr != nil {
			return Config{}, saveErr
		}
	}
	return cfg, nil
}

// LoadFrom reads the config from an explicit path. A missing file is
// not an error; it yields the defaults.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config %s", path)
	}

	cfg := Config{}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to parse config %s", path)
	}
	if cfg.Version > Version {
		return Config{}, errors.Newf(errors.ErrConfigVersion, "unsupported config version %d (expected at most %d)", cfg.Version, Version)
	}

	cfg.fillDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveTo writes the config atomically (tmp file + rename).
func (c Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to create config dir for %s", path)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to serialize config")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to write config %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to rename config into place at %s", path)
	}
	return nil
}

// fillDefaults replaces zero-valued fields so that partial config files
// still produce a total config.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Color == "" {
		c.Color = def.Color
	}
	if c.Git == "" {
		c.Git = def.Git
	}
	if c.WriteMode == "" {
		c.WriteMode = def.WriteMode
	}
	if c.Symlinks == "" {
		c.Symlinks = def.Symlinks
	}
	if c.Exclude == nil {
		c.Exclude = def.Exclude
	}
	if c.UpdateOnInit == "" {
		c.UpdateOnInit = def.UpdateOnInit
	}
}

func (c Config) validate() error {
	if _, err := types.ParseColorMode(string(c.Color)); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "invalid color setting")
	}
	if _, err := types.ParseGitMode(string(c.Git)); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "invalid git setting")
	}
	if _, err := types.ParseWriteMode(string(c.WriteMode)); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "invalid write-mode setting")
	}
	if _, err := types.ParseSymlinkMode(string(c.Symlinks)); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "invalid symlinks setting")
	}
	if _, err := types.ParseUpdateMode(string(c.UpdateOnInit)); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "invalid update-on-init setting")
	}
	return nil
}
