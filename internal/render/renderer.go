package render

import (
	"fmt"
	"sort"
	"time"

	"lldpgraph/internal/domain"
)

// CDN locations of the vis-network assets, and their local replacements
const (
	CDNStylesheet   = "https://cdn.jsdelivr.net/npm/vis-network@latest/styles/vis-network.css"
	CDNScript       = "https://cdn.jsdelivr.net/npm/vis-network@latest/dist/vis-network.min.js"
	LocalStylesheet = "files/vis-network.css"
	LocalScript     = "files/vis-network.min.js"
)

// Options controls how the diagram is derived and laid out.
type Options struct {
	Title        string
	Colorize     bool
	LocalAssets  bool
	Physics      bool
	NodeDistance int
	SpringLength int
	Seed         int
	Height       string
	Width        string
	IconDir      string
}

// DefaultTitle returns the dated diagram title
func DefaultTitle(now time.Time) string {
	return "LLDP Neighbor Network Diagram - " + now.Format("01/02/2006")
}

// DefaultOptions returns the standard layout
func DefaultOptions() Options {
	return Options{
		Title:        DefaultTitle(time.Now()),
		Colorize:     true,
		LocalAssets:  true,
		Physics:      false,
		NodeDistance: 600,
		SpringLength: 800,
		Seed:         8,
		Height:       "95%",
		Width:        "95%",
		IconDir:      "icons",
	}
}

// DeriveGraph converts discovered nodes and edges to a vis-network Graph.
// Output order is sorted by ID so the same topology renders identically.
func DeriveGraph(fragment *domain.GraphFragment, opts Options) *domain.Graph {
	graph := &domain.Graph{
		Nodes: make([]domain.GraphNode, 0),
		Edges: make([]domain.GraphEdge, 0),
	}
	if fragment == nil {
		return graph
	}

	for _, node := range fragment.Nodes {
		style := StyleFor(node, opts.IconDir)
		graph.Nodes = append(graph.Nodes, domain.GraphNode{
			ID:    node.ID,
			Label: node.Label,
			Title: node.Title(),
			Size:  style.Size,
			Shape: style.Shape,
			Image: style.Image,
		})
	}

	for _, edge := range fragment.Edges {
		ge := domain.GraphEdge{
			ID:    edge.ID,
			From:  edge.FromID,
			To:    edge.ToID,
			Title: edge.Label(),
		}
		if opts.Colorize {
			ge.Color = EdgeColor(edge.LocalInterface, edge.RemoteInterface)
		}
		graph.Edges = append(graph.Edges, ge)
	}

	sort.Slice(graph.Nodes, func(i, j int) bool { return graph.Nodes[i].ID < graph.Nodes[j].ID })
	sort.Slice(graph.Edges, func(i, j int) bool { return graph.Edges[i].Title < graph.Edges[j].Title })

	return graph
}

// Summary returns a short description of a rendered graph
func Summary(graph *domain.Graph) string {
	return fmt.Sprintf("%d nodes, %d edges", len(graph.Nodes), len(graph.Edges))
}
