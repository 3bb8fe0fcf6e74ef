package domain

import "strings"

// NodeRole represents the display class of a device, inferred from its hostname
type NodeRole string

const (
	NodeRoleRouter       NodeRole = "router"        // asr_ edge/aggregation routers
	NodeRoleAccessSwitch NodeRole = "access_switch" // sw_ access switches
	NodeRoleCoreSwitch   NodeRole = "core_switch"   // l3s_ / l3_ layer-3 switches
	NodeRoleUnknown      NodeRole = "unknown"
)

// rolePrefixes is checked in order; the first matching prefix wins
var rolePrefixes = []struct {
	prefix string
	role   NodeRole
}{
	{"asr_", NodeRoleRouter},
	{"sw_", NodeRoleAccessSwitch},
	{"l3s", NodeRoleCoreSwitch},
	{"l3_", NodeRoleCoreSwitch},
}

// Node represents a network device in the topology, keyed by short hostname
type Node struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Role       NodeRole       `json:"role"`
	Address    string         `json:"address,omitempty"`
	Polled     bool           `json:"polled"`
	Properties map[string]any `json:"properties,omitempty"`
	Source     string         `json:"source,omitempty"`
}

// NewNode creates a new node for a hostname with its role inferred
func NewNode(hostname string) *Node {
	return &Node{
		ID:         hostname,
		Label:      hostname,
		Role:       InferRole(hostname),
		Properties: make(map[string]any),
	}
}

// InferRole classifies a hostname by its naming-convention prefix.
// Matching is case-insensitive.
func InferRole(hostname string) NodeRole {
	lower := strings.ToLower(hostname)
	for _, rp := range rolePrefixes {
		if strings.HasPrefix(lower, rp.prefix) {
			return rp.role
		}
	}
	return NodeRoleUnknown
}

// ExtractShortName strips the domain suffix from a hostname
func ExtractShortName(fqdn string) string {
	if idx := strings.Index(fqdn, "."); idx > 0 {
		return fqdn[:idx]
	}
	return fqdn
}

// Title returns the tooltip text shown for the node
func (n *Node) Title() string {
	if n.Address == "" {
		return n.GetPropertyString("title")
	}
	return "IP: " + n.Address
}

// SetProperty sets a property value
func (n *Node) SetProperty(key string, value any) {
	if n.Properties == nil {
		n.Properties = make(map[string]any)
	}
	n.Properties[key] = value
}

// GetProperty gets a property value
func (n *Node) GetProperty(key string) (any, bool) {
	if n.Properties == nil {
		return nil, false
	}
	val, ok := n.Properties[key]
	return val, ok
}

// GetPropertyString gets a property as a string
func (n *Node) GetPropertyString(key string) string {
	val, ok := n.GetProperty(key)
	if !ok {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
