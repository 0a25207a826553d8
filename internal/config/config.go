// Package config loads search defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
)

// Config holds defaults that command-line flags may override.
type Config struct {
	Threads          int           `yaml:"threads"`
	FindAll          bool          `yaml:"find_all"`
	DBPath           string        `yaml:"db_path,omitempty"`
	OutputDir        string        `yaml:"output_dir,omitempty"`
	Candidates       []int         `yaml:"candidates,omitempty"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Threads:          runtime.NumCPU(),
		OutputDir:        ".",
		ProgressInterval: 5 * time.Second,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".bitcube", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	seen := make(map[int]bool, len(c.Candidates))
	for _, v := range c.Candidates {
		if v < 0 || v > 255 {
			return fmt.Errorf("candidate %d is not a byte", v)
		}
		if !balanced.IsBalanced(byte(v)) {
			return fmt.Errorf("candidate %d does not have four set bits", v)
		}
		if seen[v] {
			return fmt.Errorf("candidate %d is listed twice", v)
		}
		if seen[int(balanced.Complement(byte(v)))] {
			return fmt.Errorf("candidate %d is the complement of another candidate", v)
		}
		seen[v] = true
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must not be negative")
	}
	return nil
}

func (c *Config) normalize() {
	if c.Threads <= 0 {
		c.Threads = 1
	}
	if c.ProgressInterval == 0 {
		c.ProgressInterval = Default().ProgressInterval
	}
}

// CandidateBytes returns Candidates as bytes. Validate must have passed.
func (c *Config) CandidateBytes() []byte {
	if len(c.Candidates) == 0 {
		return nil
	}
	out := make([]byte, len(c.Candidates))
	for i, v := range c.Candidates {
		out[i] = byte(v)
	}
	return out
}

// Save writes c to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
