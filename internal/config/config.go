// Package config loads maclink configuration from ~/.maclink/config.yaml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration
type Config struct {
	// Data directory (~/.maclink)
	DataDir string `yaml:"data_dir"`

	// Contacts settings
	MaxContacts int `yaml:"max_contacts"` // Snapshot size cap per query

	// Messages settings
	ChatDBPath  string `yaml:"chat_db_path"` // Messages store (default: ~/Library/Messages/chat.db)
	CountryCode string `yaml:"country_code"` // Dial prefix for number normalization (e.g. "+1")

	// Reminders settings
	DefaultList string `yaml:"default_list"` // List used when create omits one

	// Startup settings
	PreloadTimeout int `yaml:"preload_timeout"` // Eager-load budget in seconds before lazy fallback

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir:        DefaultDataDir(),
		MaxContacts:    500,
		ChatDBPath:     filepath.Join(home, "Library", "Messages", "chat.db"),
		CountryCode:    "+1",
		DefaultList:    "Reminders",
		PreloadTimeout: 5,
		LogLevel:       "info",
	}
}

// PreloadBudget returns the eager-load timeout as a duration.
func (c *Config) PreloadBudget() time.Duration {
	return time.Duration(c.PreloadTimeout) * time.Second
}

// DefaultDataDir returns the default data directory (~/.maclink)
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".maclink"
	}
	return filepath.Join(home, ".maclink")
}

// Load loads config from ~/.maclink/config.yaml, falling back to defaults
// when the file does not exist.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(cfg.DataDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.expand()
	return cfg, nil
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.expand()
	return cfg, nil
}

func (c *Config) expand() {
	c.ChatDBPath = os.ExpandEnv(c.ChatDBPath)
	c.LogFile = os.ExpandEnv(c.LogFile)
	if c.MaxContacts <= 0 {
		c.MaxContacts = 500
	}
	if c.PreloadTimeout <= 0 {
		c.PreloadTimeout = 5
	}
}
