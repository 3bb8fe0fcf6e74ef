package config

import (
	"time"

	"lldpgraph/internal/domain"
)

// Config is the root configuration structure
type Config struct {
	Version     int                `yaml:"version"`
	Credentials domain.Credentials `yaml:"credentials"`
	SSH         SSHConfig          `yaml:"ssh"`
	Discovery   DiscoveryConfig    `yaml:"discovery"`
	Scan        ScanConfig         `yaml:"scan"`
	Output      OutputConfig       `yaml:"output"`
	Export      ExportConfig       `yaml:"export"`
}

// SSHConfig holds device session settings
type SSHConfig struct {
	Port           int      `yaml:"port"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
	CommandTimeout Duration `yaml:"command_timeout"`
	TerminalWidth  int      `yaml:"terminal_width"`
	DeviceType     string   `yaml:"device_type"` // only cisco_ios is supported
}

// DiscoveryConfig holds polling settings
type DiscoveryConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// ScanConfig holds nmap settings used when devices come from a scan
type ScanConfig struct {
	Targets           []string `yaml:"targets,omitempty"`
	Port              int      `yaml:"port"`
	SkipHostDiscovery bool     `yaml:"skip_host_discovery"`
	Timeout           Duration `yaml:"timeout"`
}

// OutputConfig holds diagram settings
type OutputConfig struct {
	Path         string `yaml:"path"`
	Title        string `yaml:"title,omitempty"` // empty = dated default title
	LocalAssets  bool   `yaml:"local_assets"`
	Colorize     bool   `yaml:"colorize"`
	Physics      bool   `yaml:"physics"`
	NodeDistance int    `yaml:"node_distance"`
	SpringLength int    `yaml:"spring_length"`
	Seed         int    `yaml:"seed"`
	IconDir      string `yaml:"icon_dir"`
}

// ExportConfig holds the optional topology export
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // json, yaml, ansible or empty for none
	Path   string `yaml:"path,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
