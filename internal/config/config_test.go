package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Credentials.Username != "JohnDoe" {
		t.Errorf("Username = %s, want JohnDoe", cfg.Credentials.Username)
	}
	if cfg.Credentials.Password != "JohnDoePassword" {
		t.Errorf("Password = %s, want JohnDoePassword", cfg.Credentials.Password)
	}
	if cfg.Credentials.Secret != "JohnDoeEnablePassword" {
		t.Errorf("Secret = %s, want JohnDoeEnablePassword", cfg.Credentials.Secret)
	}
	if cfg.SSH.Port != 22 {
		t.Errorf("SSH.Port = %d, want 22", cfg.SSH.Port)
	}
	if cfg.Output.Path != "diagram.html" {
		t.Errorf("Output.Path = %s, want diagram.html", cfg.Output.Path)
	}
	if !cfg.Output.LocalAssets || !cfg.Output.Colorize || cfg.Output.Physics {
		t.Errorf("Output flags = %+v, want local assets and colorize on, physics off", cfg.Output)
	}
	if cfg.Output.NodeDistance != 600 || cfg.Output.SpringLength != 800 || cfg.Output.Seed != 8 {
		t.Errorf("Output layout = %+v, want 600/800/8", cfg.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Credentials.Username = "netops"
	cfg.SSH.CommandTimeout = Duration(45 * time.Second)
	cfg.Discovery.MaxConcurrent = 4
	cfg.Scan.Targets = []string{"10.0.0.0/24"}
	cfg.Export.Format = "json"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Credentials.Username != "netops" {
		t.Errorf("Username = %s, want netops", loaded.Credentials.Username)
	}
	if loaded.SSH.CommandTimeout.Duration() != 45*time.Second {
		t.Errorf("CommandTimeout = %s, want 45s", loaded.SSH.CommandTimeout.Duration())
	}
	if loaded.Discovery.MaxConcurrent != 4 {
		t.Errorf("MaxConcurrent = %d, want 4", loaded.Discovery.MaxConcurrent)
	}
	if len(loaded.Scan.Targets) != 1 || loaded.Scan.Targets[0] != "10.0.0.0/24" {
		t.Errorf("Scan.Targets = %v, want [10.0.0.0/24]", loaded.Scan.Targets)
	}
	if loaded.Export.Format != "json" {
		t.Errorf("Export.Format = %s, want json", loaded.Export.Format)
	}
}

func TestLoadPartialFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	data := `
credentials:
  username: admin
ssh:
  connect_timeout: 3s
discovery:
  max_concurrent: 0
output:
  colorize: false
export:
  format: YAML
`
	if err := os.WriteFile(configPath, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Credentials.Username != "admin" {
		t.Errorf("Username = %s, want admin", cfg.Credentials.Username)
	}
	// keys absent from the file keep their defaults
	if cfg.Credentials.Password != DefaultPassword {
		t.Errorf("Password = %s, want default", cfg.Credentials.Password)
	}
	if cfg.SSH.ConnectTimeout.Duration() != 3*time.Second {
		t.Errorf("ConnectTimeout = %s, want 3s", cfg.SSH.ConnectTimeout.Duration())
	}
	if cfg.SSH.CommandTimeout.Duration() != 30*time.Second {
		t.Errorf("CommandTimeout = %s, want 30s", cfg.SSH.CommandTimeout.Duration())
	}
	if cfg.Discovery.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent = %d, want 10", cfg.Discovery.MaxConcurrent)
	}
	if cfg.Output.Colorize {
		t.Error("Colorize should be disabled")
	}
	if !cfg.Output.LocalAssets {
		t.Error("LocalAssets should keep its default")
	}
	if cfg.Export.Format != "yaml" {
		t.Errorf("Export.Format = %s, want yaml", cfg.Export.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad yaml", "ssh: [", "parse config"},
		{"bad duration", "ssh:\n  connect_timeout: soon\n", "parse config"},
		{"unsupported device type", "ssh:\n  device_type: juniper_junos\n", "device_type"},
		{"unsupported export", "export:\n  format: xml\n", "export format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}
			_, _, err := LoadFromPath(configPath)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromPath() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFromPath() should fail for a missing file")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	t.Setenv(EnvConfigPath, "")

	workDir := filepath.Join(tmpDir, "work")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(workDir)

	if found := FindConfigPath(); found != "" && !strings.HasPrefix(found, "/etc/") {
		t.Errorf("FindConfigPath() = %s, want nothing under the test dirs", found)
	}

	xdgPath := filepath.Join(tmpDir, "xdg", ConfigDirName, "config.yaml")
	if err := DefaultConfig().Save(xdgPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if found := FindConfigPath(); found != xdgPath {
		t.Errorf("FindConfigPath() = %s, want %s", found, xdgPath)
	}

	// working directory beats XDG
	if err := DefaultConfig().Save(filepath.Join(workDir, ConfigFileName)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if found := FindConfigPath(); filepath.Base(found) != ConfigFileName {
		t.Errorf("FindConfigPath() = %s, want ./%s", found, ConfigFileName)
	}

	// explicit path beats everything, but only when it exists
	explicit := filepath.Join(tmpDir, "explicit.yaml")
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); filepath.Base(found) != ConfigFileName {
		t.Errorf("FindConfigPath() = %s, want fallback to ./%s", found, ConfigFileName)
	}
	if err := DefaultConfig().Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigPath(); got != "/tmp/xdg/lldpgraph/config.yaml" {
		t.Errorf("DefaultConfigPath() = %s", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/netops")
	if got := DefaultConfigPath(); got != "/home/netops/.config/lldpgraph/config.yaml" {
		t.Errorf("DefaultConfigPath() = %s", got)
	}
}

func TestSummaryHidesSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.Format = "json"
	summary := cfg.Summary()

	if strings.Contains(summary, DefaultPassword) || strings.Contains(summary, DefaultSecret) {
		t.Errorf("Summary() leaks credentials: %s", summary)
	}
	if !strings.Contains(summary, "export: json") {
		t.Errorf("Summary() = %s, want export format", summary)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
