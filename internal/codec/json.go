package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"lldpgraph/internal/domain"
)

// JSONCodec handles JSON import/export. The document is a domain.GraphFragment.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a topology previously written by Export
func (c *JSONCodec) Parse(r io.Reader) (*domain.GraphFragment, error) {
	var fragment domain.GraphFragment
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&fragment); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := normalize(&fragment); err != nil {
		return nil, err
	}
	return &fragment, nil
}

// Export writes the topology as indented JSON
func (c *JSONCodec) Export(fragment *domain.GraphFragment, w io.Writer) error {
	if fragment == nil {
		fragment = domain.NewGraphFragment()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(fragment); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// normalize checks an imported fragment and fills what older or
// hand-written files may leave out
func normalize(fragment *domain.GraphFragment) error {
	if fragment.Nodes == nil {
		fragment.Nodes = make([]domain.Node, 0)
	}
	if fragment.Edges == nil {
		fragment.Edges = make([]domain.Edge, 0)
	}

	for i := range fragment.Nodes {
		node := &fragment.Nodes[i]
		if node.ID == "" {
			return fmt.Errorf("node %d has no id", i)
		}
		if node.Label == "" {
			node.Label = node.ID
		}
		if node.Role == "" {
			node.Role = domain.InferRole(node.ID)
		}
		if node.Properties == nil {
			node.Properties = make(map[string]any)
		}
	}

	for i := range fragment.Edges {
		edge := &fragment.Edges[i]
		if edge.FromID == "" || edge.ToID == "" {
			return fmt.Errorf("edge %d is missing an endpoint", i)
		}
		if edge.Type == "" {
			edge.Type = domain.EdgeTypeLLDP
		}
		if edge.Properties == nil {
			edge.Properties = make(map[string]any)
		}
		if edge.ID == "" {
			edge.ID = edge.GenerateID()
		}
	}

	return nil
}
