// Package config provides configuration management for bookmarkdown.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ar90n/bookmarkdown-sub001/internal/merge"
	"github.com/ar90n/bookmarkdown-sub001/internal/util"
)

// Config represents the complete bookmarkdown configuration.
type Config struct {
	// Sync configures default merge behavior
	Sync SyncConfig `yaml:"sync"`

	// State configures where per-document sync state is kept
	State StateConfig `yaml:"state"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// SyncConfig holds merge settings.
type SyncConfig struct {
	// DefaultStrategy is the default merge strategy
	DefaultStrategy string `yaml:"default_strategy"`
	// Document is the default document name used for sync-state lookups
	Document string `yaml:"document"`
}

// StateConfig holds sync-state settings.
type StateConfig struct {
	// Location is the sync-state directory path
	Location string `yaml:"location"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default snapshot output format (json, yaml, toml)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			DefaultStrategy: string(merge.DefaultStrategy),
			Document:        "bookmarks",
		},
		State: StateConfig{
			Location: util.StatePath(),
		},
		Output: OutputConfig{
			Format:  "json",
			Color:   "auto",
			Verbose: false,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigPath(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults with environment overrides
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	// Parse YAML over defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern BOOKMARKDOWN_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("BOOKMARKDOWN_SYNC_STRATEGY"); v != "" {
		c.Sync.DefaultStrategy = v
	}
	if v := os.Getenv("BOOKMARKDOWN_SYNC_DOCUMENT"); v != "" {
		c.Sync.Document = v
	}
	if v := os.Getenv("BOOKMARKDOWN_STATE_LOCATION"); v != "" {
		c.State.Location = v
	}
	if v := os.Getenv("BOOKMARKDOWN_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("BOOKMARKDOWN_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("BOOKMARKDOWN_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// GetStrategy returns the merge strategy from config, validating it.
func (c *Config) GetStrategy() merge.Strategy {
	strategy := merge.Strategy(c.Sync.DefaultStrategy)
	if strategy.IsValid() {
		return strategy
	}
	return merge.DefaultStrategy
}
