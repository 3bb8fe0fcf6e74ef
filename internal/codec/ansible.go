package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"lldpgraph/internal/domain"
)

// AnsibleCodec exports discovered devices as an Ansible inventory so the
// same switches can be managed with the cisco.ios collection
type AnsibleCodec struct{}

// NewAnsibleCodec creates a new Ansible codec
func NewAnsibleCodec() *AnsibleCodec {
	return &AnsibleCodec{}
}

// Format returns the codec format identifier
func (c *AnsibleCodec) Format() string {
	return "ansible-inventory"
}

// ansibleInventory represents the Ansible inventory structure
type ansibleInventory struct {
	All ansibleGroup `yaml:"all"`
}

type ansibleGroup struct {
	Children map[string]ansibleGroupDef `yaml:"children,omitempty"`
	Vars     map[string]interface{}     `yaml:"vars,omitempty"`
}

type ansibleGroupDef struct {
	Hosts map[string]ansibleHost `yaml:"hosts"`
}

type ansibleHost struct {
	AnsibleHost string `yaml:"ansible_host,omitempty"`
}

// groupNames maps node roles to inventory groups
var groupNames = map[domain.NodeRole]string{
	domain.NodeRoleRouter:       "routers",
	domain.NodeRoleAccessSwitch: "access_switches",
	domain.NodeRoleCoreSwitch:   "core_switches",
	domain.NodeRoleUnknown:      "ungrouped_devices",
}

// Export writes one group per role. Polled devices carry ansible_host;
// neighbor-only devices are listed by name under an extra "unpolled" group
// as well so they are easy to exclude.
func (c *AnsibleCodec) Export(fragment *domain.GraphFragment, w io.Writer) error {
	inv := ansibleInventory{
		All: ansibleGroup{
			Children: make(map[string]ansibleGroupDef),
			Vars: map[string]interface{}{
				"ansible_connection":    "ansible.netcommon.network_cli",
				"ansible_network_os":    "cisco.ios.ios",
				"ansible_become":        true,
				"ansible_become_method": "enable",
			},
		},
	}

	add := func(group, hostname string, host ansibleHost) {
		def, ok := inv.All.Children[group]
		if !ok {
			def = ansibleGroupDef{Hosts: make(map[string]ansibleHost)}
			inv.All.Children[group] = def
		}
		def.Hosts[hostname] = host
	}

	if fragment != nil {
		for _, node := range fragment.Nodes {
			group, ok := groupNames[node.Role]
			if !ok {
				group = groupNames[domain.NodeRoleUnknown]
			}
			host := ansibleHost{AnsibleHost: node.Address}
			add(group, node.ID, host)
			if !node.Polled {
				add("unpolled", node.ID, host)
			}
		}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&inv); err != nil {
		return fmt.Errorf("failed to encode Ansible inventory: %w", err)
	}

	return nil
}
