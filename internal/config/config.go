package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// DefaultSummaryPath is where the summary is written when nothing is configured
const DefaultSummaryPath = "SUMMARY.md"

// Config represents the vaultsummary settings
type Config struct {
	VaultDir    string        `json:"vault_dir"`
	SummaryPath string        `json:"summary_path"`
	LogFile     string        `json:"log_file"`
	Interval    time.Duration `json:"-"` // Custom JSON handling below
}

// fileConfig is the on-disk form, with the interval as a duration string
type fileConfig struct {
	VaultDir    string `json:"vault_dir"`
	SummaryPath string `json:"summary_path"`
	LogFile     string `json:"log_file"`
	Interval    string `json:"interval"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		VaultDir:    filepath.Join(home, "Documents", "obsidian-vault"),
		SummaryPath: DefaultSummaryPath,
		LogFile:     filepath.Join(xdg.StateHome, "vaultsummary", "vaultsummary.log"),
		Interval:    5 * time.Minute,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "vaultsummary", "config.json")
	}
	return filepath.Join(home, ".config", "vaultsummary", "config.json")
}

// StateFilePath returns the path to the generation state file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "vaultsummary", "state.json")
}

// Load reads configuration from the default config path
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path.
// A missing file yields the defaults; missing keys keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.ExpandPaths(); err != nil {
				return nil, fmt.Errorf("failed to expand paths: %w", err)
			}
			return cfg, nil
		}
		return nil, err
	}

	var raw fileConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if raw.VaultDir != "" {
		cfg.VaultDir = raw.VaultDir
	}
	if raw.SummaryPath != "" {
		cfg.SummaryPath = raw.SummaryPath
	}
	if raw.LogFile != "" {
		cfg.LogFile = raw.LogFile
	}
	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
		}
		cfg.Interval = interval
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Expand paths
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the default config path
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile writes configuration to path
func (c *Config) SaveFile(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := fileConfig{
		VaultDir:    c.VaultDir,
		SummaryPath: c.SummaryPath,
		LogFile:     c.LogFile,
		Interval:    c.Interval.String(),
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.VaultDir == "" {
		return fmt.Errorf("vault_dir cannot be empty")
	}
	if c.SummaryPath == "" {
		return fmt.Errorf("summary_path cannot be empty")
	}
	if filepath.IsAbs(c.SummaryPath) || strings.HasPrefix(c.SummaryPath, "/") {
		return fmt.Errorf("summary_path must be relative to the vault: %s", c.SummaryPath)
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}

// Keys lists the settings accepted by Set
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(c *Config, value string) error{
	"vault_dir": func(c *Config, value string) error {
		c.VaultDir = value
		return nil
	},
	"summary_path": func(c *Config, value string) error {
		c.SummaryPath = value
		return nil
	},
	"log_file": func(c *Config, value string) error {
		c.LogFile = value
		return nil
	},
	"interval": func(c *Config, value string) error {
		interval, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid interval format '%s': %w", value, err)
		}
		c.Interval = interval
		return nil
	},
}

// Set updates one setting by key and validates the result.
// The config is left unchanged when the new value is rejected.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown setting '%s': must be one of: %s", key, strings.Join(Keys(), ", "))
	}

	next := *c
	if err := set(&next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := next.ExpandPaths(); err != nil {
		return fmt.Errorf("failed to expand paths: %w", err)
	}

	*c = next
	return nil
}

// Get returns the string form of one setting
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "vault_dir":
		return c.VaultDir, nil
	case "summary_path":
		return c.SummaryPath, nil
	case "log_file":
		return c.LogFile, nil
	case "interval":
		return c.Interval.String(), nil
	}
	return "", fmt.Errorf("unknown setting '%s': must be one of: %s", key, strings.Join(Keys(), ", "))
}

// SummarySlashPath returns the summary path in vault (forward slash) form
func (c *Config) SummarySlashPath() string {
	return filepath.ToSlash(c.SummaryPath)
}

// ExpandPaths expands any ~ or relative paths to absolute paths.
// The summary path stays relative to the vault.
func (c *Config) ExpandPaths() error {
	var err error

	c.VaultDir, err = expandPath(c.VaultDir)
	if err != nil {
		return fmt.Errorf("failed to expand vault_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
