package domain

// Graph is the derived view for vis-network visualization
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode represents a node in the visualization
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title,omitempty"` // Tooltip content
	Size  int    `json:"size"`
	Shape string `json:"shape"`
	Image string `json:"image,omitempty"`
}

// GraphEdge represents an edge in the visualization
type GraphEdge struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Title string `json:"title"` // connection label
	Color string `json:"color,omitempty"`
}

// NodeByID returns the visualization node with the given ID
func (g *Graph) NodeByID(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}
