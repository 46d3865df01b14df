// Package config loads and persists the WoundGuard application
// configuration as a JSON file in the data directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `json:"addr"`

	// DBPath is the SQLite database file. Empty means
	// <data dir>/woundguard.db.
	DBPath string `json:"dbPath,omitempty"`

	// StaticDir overrides the dashboard asset directory lookup.
	StaticDir string `json:"staticDir,omitempty"`

	// ModelPath is the ONNX segmentation model file. Empty disables the
	// neural detection path.
	ModelPath string `json:"modelPath,omitempty"`

	// SensorDevice is the serial device to read probe lines from, for
	// example /dev/ttyUSB0. Empty switches to the built-in simulator.
	SensorDevice string `json:"sensorDevice,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Addr: ":8080",
	}
}

// DataDir returns the per-user data directory, creating it if needed.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".woundguard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// Load reads the configuration file at path. A missing file yields the
// defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to path as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.ModelPath != "" {
		if _, err := os.Stat(c.ModelPath); err != nil {
			return fmt.Errorf("modelPath: %w", err)
		}
	}
	return nil
}
