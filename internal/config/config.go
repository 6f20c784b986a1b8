package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional partsplit configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. Size fields use the
// same human-readable form as the CLI flags (e.g. "100M").
type DefaultsConfig struct {
	Root       *string `toml:"root"`
	BackupDir  *string `toml:"backup_dir"`
	MaxSize    *string `toml:"max_size"`
	ChunkSize  *string `toml:"chunk_size"`
	BufferSize *string `toml:"buffer_size"`
	BWLimit    *string `toml:"bwlimit"`
	DryRun     *bool   `toml:"dry_run"`
}

// ThemeConfig holds optional color overrides for the summary line.
type ThemeConfig struct {
	Green  *string `toml:"green"`
	Red    *string `toml:"red"`
	Yellow *string `toml:"yellow"`
	Muted  *string `toml:"muted"`
	Bright *string `toml:"bright"`
}

// ConfigPath returns the resolved path to the config file.
//
//nolint:revive // exported: name stutters but matches call sites
func ConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "partsplit", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file from an explicit path. A missing file is
// not an error.
func LoadFile(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}
