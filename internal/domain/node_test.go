package domain

import (
	"testing"
)

func TestNewNode(t *testing.T) {
	t.Run("creates node keyed by hostname", func(t *testing.T) {
		node := NewNode("asr_core1")

		if node.ID != "asr_core1" {
			t.Errorf("expected ID 'asr_core1', got %s", node.ID)
		}
		if node.Label != "asr_core1" {
			t.Errorf("expected Label 'asr_core1', got %s", node.Label)
		}
		if node.Role != NodeRoleRouter {
			t.Errorf("expected Role %s, got %s", NodeRoleRouter, node.Role)
		}
		if node.Properties == nil {
			t.Error("expected Properties to be initialized")
		}
	})
}

func TestInferRole(t *testing.T) {
	tests := []struct {
		hostname string
		expected NodeRole
	}{
		{"asr_core1", NodeRoleRouter},
		{"ASR_core1", NodeRoleRouter},
		{"sw_floor2", NodeRoleAccessSwitch},
		{"SW_floor2", NodeRoleAccessSwitch},
		{"l3s_dist1", NodeRoleCoreSwitch},
		{"L3S_dist1", NodeRoleCoreSwitch},
		{"L3Sdist1", NodeRoleCoreSwitch},
		{"l3_dist1", NodeRoleCoreSwitch},
		{"L3_dist1", NodeRoleCoreSwitch},
		{"core1", NodeRoleUnknown},
		{"asr-core1", NodeRoleUnknown},
		{"", NodeRoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			if got := InferRole(tt.hostname); got != tt.expected {
				t.Errorf("InferRole(%q) = %s, want %s", tt.hostname, got, tt.expected)
			}
		})
	}
}

func TestExtractShortName(t *testing.T) {
	tests := []struct {
		name     string
		fqdn     string
		expected string
	}{
		{"FQDN with domain", "edge1.example.com", "edge1"},
		{"FQDN with multiple levels", "sw_1.site.corp.example.com", "sw_1"},
		{"short hostname", "core1", "core1"},
		{"empty string", "", ""},
		{"single character", "s", "s"},
		{"leading dot", ".local", ".local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractShortName(tt.fqdn)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestNodeTitle(t *testing.T) {
	t.Run("polled node shows address", func(t *testing.T) {
		node := NewNode("core1")
		node.Address = "10.0.0.1"
		if got := node.Title(); got != "IP: 10.0.0.1" {
			t.Errorf("expected 'IP: 10.0.0.1', got %q", got)
		}
	})

	t.Run("neighbor node uses title property", func(t *testing.T) {
		node := NewNode("edge1")
		node.SetProperty("title", "IP: 10.0.0.1")
		if got := node.Title(); got != "IP: 10.0.0.1" {
			t.Errorf("expected title property, got %q", got)
		}
	})

	t.Run("empty without address or property", func(t *testing.T) {
		node := &Node{ID: "x"}
		if got := node.Title(); got != "" {
			t.Errorf("expected empty title, got %q", got)
		}
	})
}

func TestNodeProperties(t *testing.T) {
	node := &Node{ID: "core1"}

	if _, ok := node.GetProperty("missing"); ok {
		t.Error("expected missing property on nil map")
	}

	node.SetProperty("title", "hello")
	node.SetProperty("count", 3)

	if got := node.GetPropertyString("title"); got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
	if got := node.GetPropertyString("count"); got != "" {
		t.Errorf("expected non-string property to read as empty, got %q", got)
	}
}

func TestDeviceHostPort(t *testing.T) {
	tests := []struct {
		name     string
		device   Device
		expected string
	}{
		{"default port", Device{Address: "10.0.0.1"}, "10.0.0.1:22"},
		{"explicit port", Device{Address: "10.0.0.1", Port: 2222}, "10.0.0.1:2222"},
		{"ipv6", Device{Address: "2001:db8::1", Port: 22}, "[2001:db8::1]:22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.HostPort(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCredentialsMerge(t *testing.T) {
	fallback := Credentials{Username: "admin", Password: "pw", Secret: "en"}

	merged := Credentials{Username: "ops"}.Merge(fallback)
	if merged.Username != "ops" {
		t.Errorf("expected explicit username to win, got %s", merged.Username)
	}
	if merged.Password != "pw" || merged.Secret != "en" {
		t.Errorf("expected empty fields filled from fallback, got %+v", merged)
	}
	if !merged.Complete() {
		t.Error("expected merged credentials to be complete")
	}
	if (Credentials{Username: "ops"}).Complete() {
		t.Error("expected credentials without password to be incomplete")
	}
}
