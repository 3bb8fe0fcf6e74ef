package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"lldpgraph/internal/domain"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlFragment represents the YAML structure for graph data
type yamlFragment struct {
	Nodes []yamlNode `yaml:"nodes"`
	Edges []yamlEdge `yaml:"edges"`
}

type yamlNode struct {
	ID         string         `yaml:"id"`
	Label      string         `yaml:"label,omitempty"`
	Role       string         `yaml:"role,omitempty"`
	Address    string         `yaml:"address,omitempty"`
	Polled     bool           `yaml:"polled,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
	Source     string         `yaml:"source,omitempty"`
}

type yamlEdge struct {
	ID              string         `yaml:"id,omitempty"`
	FromID          string         `yaml:"from_id"`
	LocalInterface  string         `yaml:"local_interface"`
	ToID            string         `yaml:"to_id"`
	RemoteInterface string         `yaml:"remote_interface"`
	Type            string         `yaml:"type,omitempty"`
	Properties      map[string]any `yaml:"properties,omitempty"`
}

// Parse imports graph data from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.GraphFragment, error) {
	var yf yamlFragment
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	fragment := domain.NewGraphFragment()

	for _, yn := range yf.Nodes {
		fragment.AddNode(domain.Node{
			ID:         yn.ID,
			Label:      yn.Label,
			Role:       domain.NodeRole(yn.Role),
			Address:    yn.Address,
			Polled:     yn.Polled,
			Properties: yn.Properties,
			Source:     yn.Source,
		})
	}

	for _, ye := range yf.Edges {
		fragment.AddEdge(domain.Edge{
			ID:              ye.ID,
			FromID:          ye.FromID,
			ToID:            ye.ToID,
			LocalInterface:  ye.LocalInterface,
			RemoteInterface: ye.RemoteInterface,
			Type:            domain.EdgeType(ye.Type),
			Properties:      ye.Properties,
		})
	}

	if err := normalize(fragment); err != nil {
		return nil, err
	}
	return fragment, nil
}

// Export exports graph data to YAML
func (c *YAMLCodec) Export(fragment *domain.GraphFragment, w io.Writer) error {
	if fragment == nil {
		fragment = domain.NewGraphFragment()
	}

	yf := yamlFragment{
		Nodes: make([]yamlNode, 0, len(fragment.Nodes)),
		Edges: make([]yamlEdge, 0, len(fragment.Edges)),
	}

	for _, node := range fragment.Nodes {
		yf.Nodes = append(yf.Nodes, yamlNode{
			ID:         node.ID,
			Label:      node.Label,
			Role:       string(node.Role),
			Address:    node.Address,
			Polled:     node.Polled,
			Properties: node.Properties,
			Source:     node.Source,
		})
	}

	for _, edge := range fragment.Edges {
		yf.Edges = append(yf.Edges, yamlEdge{
			ID:              edge.ID,
			FromID:          edge.FromID,
			LocalInterface:  edge.LocalInterface,
			ToID:            edge.ToID,
			RemoteInterface: edge.RemoteInterface,
			Type:            string(edge.Type),
			Properties:      edge.Properties,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yf); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
