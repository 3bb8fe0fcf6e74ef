// Package config provides configuration management for lldpgraph.
//
// Settings are layered: built-in defaults, then the config file, then the
// environment (TACACS_USER, TACACS_PASS, TACACS_SECRET, optionally from a
// .env file), then command-line flags applied by the caller.
//
// Config file locations (priority order):
//  1. $LLDPGRAPH_CONFIG
//  2. ./lldpgraph.yaml
//  3. $XDG_CONFIG_HOME/lldpgraph/config.yaml
//  4. ~/.config/lldpgraph/config.yaml
//  5. /etc/lldpgraph/config.yaml
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lldpgraph/internal/domain"
)

// Default login material used when neither the config file nor the
// environment provides credentials
const (
	DefaultUsername = "JohnDoe"
	DefaultPassword = "JohnDoePassword"
	DefaultSecret   = "JohnDoeEnablePassword"
)

// DeviceTypeCiscoIOS is the only CLI dialect the collector understands
const DeviceTypeCiscoIOS = "cisco_ios"

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Keys missing from the
// file keep their default values.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns the settings used when no config file exists
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Credentials: domain.Credentials{
			Username: DefaultUsername,
			Password: DefaultPassword,
			Secret:   DefaultSecret,
		},
		SSH: SSHConfig{
			Port:           domain.DefaultSSHPort,
			ConnectTimeout: Duration(10 * time.Second),
			CommandTimeout: Duration(30 * time.Second),
			TerminalWidth:  511,
			DeviceType:     DeviceTypeCiscoIOS,
		},
		Discovery: DiscoveryConfig{
			MaxConcurrent: 10,
		},
		Scan: ScanConfig{
			Port:    domain.DefaultSSHPort,
			Timeout: Duration(10 * time.Minute),
		},
		Output: OutputConfig{
			Path:         "diagram.html",
			LocalAssets:  true,
			Colorize:     true,
			Physics:      false,
			NodeDistance: 600,
			SpringLength: 800,
			Seed:         8,
			IconDir:      "icons",
		},
	}
}

// applyDefaults replaces zero values that would leave the tool unusable
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Version == 0 {
		c.Version = 1
	}
	if c.SSH.Port == 0 {
		c.SSH.Port = defaults.SSH.Port
	}
	if c.SSH.ConnectTimeout == 0 {
		c.SSH.ConnectTimeout = defaults.SSH.ConnectTimeout
	}
	if c.SSH.CommandTimeout == 0 {
		c.SSH.CommandTimeout = defaults.SSH.CommandTimeout
	}
	if c.SSH.TerminalWidth == 0 {
		c.SSH.TerminalWidth = defaults.SSH.TerminalWidth
	}
	if c.SSH.DeviceType == "" {
		c.SSH.DeviceType = defaults.SSH.DeviceType
	}
	if c.Discovery.MaxConcurrent <= 0 {
		c.Discovery.MaxConcurrent = defaults.Discovery.MaxConcurrent
	}
	if c.Scan.Port == 0 {
		c.Scan.Port = defaults.Scan.Port
	}
	if c.Scan.Timeout == 0 {
		c.Scan.Timeout = defaults.Scan.Timeout
	}
	if c.Output.Path == "" {
		c.Output.Path = defaults.Output.Path
	}
	c.Export.Format = strings.ToLower(c.Export.Format)
}

// Validate rejects settings the tool cannot act on
func (c *Config) Validate() error {
	if c.SSH.DeviceType != DeviceTypeCiscoIOS {
		return fmt.Errorf("unsupported device_type %q (want %s)", c.SSH.DeviceType, DeviceTypeCiscoIOS)
	}
	switch c.Export.Format {
	case "", "json", "yaml", "ansible":
	default:
		return fmt.Errorf("unsupported export format %q", c.Export.Format)
	}
	return nil
}

// Summary returns a human-readable config summary without secrets
func (c *Config) Summary() string {
	summary := fmt.Sprintf("User: %s, SSH port: %d, timeouts: connect %s / command %s\n",
		c.Credentials.Username, c.SSH.Port, c.SSH.ConnectTimeout.Duration(), c.SSH.CommandTimeout.Duration())
	summary += fmt.Sprintf("Workers: %d, output: %s (local assets: %v, colorize: %v)",
		c.Discovery.MaxConcurrent, c.Output.Path, c.Output.LocalAssets, c.Output.Colorize)
	if c.Export.Format != "" {
		summary += fmt.Sprintf(", export: %s", c.Export.Format)
	}
	return summary
}
