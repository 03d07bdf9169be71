// Package config provides configuration file parsing for gradebook.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvDataFile = "GRADEBOOK_DATA"
	EnvStateDir = "GRADEBOOK_STATE_DIR"
)

// FileName is the config file looked up inside Dir().
const FileName = "config.yaml"

// Config holds the resolved settings.
type Config struct {
	// DataFile is the gradebook JSON file that every mutation autosaves to.
	DataFile string
	// StateDir holds the database, snapshots and logs.
	StateDir string
	// Autosave controls whether mutations are persisted immediately.
	Autosave bool
	// SnapshotRetentionDays is how long snapshot files are kept. 0 keeps them forever.
	SnapshotRetentionDays int
}

// DBPath returns the path of the SQLite database.
func (c Config) DBPath() string {
	return filepath.Join(c.StateDir, "gradebook.db")
}

// SnapshotDir returns the directory snapshot files are written to.
func (c Config) SnapshotDir() string {
	return filepath.Join(c.StateDir, "snapshots")
}

// Dir returns the gradebook config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/gradebook if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "gradebook"), nil
}

// Default returns the settings used when nothing is configured: state in
// ~/.gradebook, data in ~/.gradebook/grades.json.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get user home directory: %w", err)
	}
	stateDir := filepath.Join(home, ".gradebook")
	return Config{
		DataFile:              filepath.Join(stateDir, "grades.json"),
		StateDir:              stateDir,
		Autosave:              true,
		SnapshotRetentionDays: 90,
	}, nil
}

type yamlConfig struct {
	DataFile              string `yaml:"data_file"`
	StateDir              string `yaml:"state_dir"`
	Autosave              *bool  `yaml:"autosave"`
	SnapshotRetentionDays *int   `yaml:"snapshot_retention_days"`
}

// Load reads {dir}/config.yaml on top of the defaults, then applies the
// environment overrides. A missing file is not an error. Relative paths in
// the file are resolved against dir. Unless a data file is set explicitly it
// lives in the state directory.
func Load(dir string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}

	var y yamlConfig
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &y); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if y.StateDir != "" {
		cfg.StateDir = resolve(dir, y.StateDir)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStateDir)); v != "" {
		cfg.StateDir = expandHome(v)
	}

	cfg.DataFile = filepath.Join(cfg.StateDir, "grades.json")
	if y.DataFile != "" {
		cfg.DataFile = resolve(dir, y.DataFile)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataFile)); v != "" {
		cfg.DataFile = expandHome(v)
	}

	if y.Autosave != nil {
		cfg.Autosave = *y.Autosave
	}
	if y.SnapshotRetentionDays != nil {
		if *y.SnapshotRetentionDays < 0 {
			return cfg, fmt.Errorf("invalid config %s: snapshot_retention_days must not be negative, got %d", path, *y.SnapshotRetentionDays)
		}
		cfg.SnapshotRetentionDays = *y.SnapshotRetentionDays
	}

	return cfg, nil
}

func resolve(dir, p string) string {
	p = expandHome(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
