package service

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"lldpgraph/internal/codec"
	"lldpgraph/internal/domain"
)

// Topology accumulates device fragments into one graph.
// It is safe for concurrent use.
type Topology struct {
	mu    sync.Mutex
	nodes map[string]domain.Node
	edges map[string]domain.Edge
}

// NewTopology creates an empty topology
func NewTopology() *Topology {
	return &Topology{
		nodes: make(map[string]domain.Node),
		edges: make(map[string]domain.Edge),
	}
}

// AddFragment merges what one device reported.
//
// Nodes are keyed by hostname. A polled device replaces a neighbor-only
// entry for the same name, so its address wins the tooltip; otherwise the
// first writer is kept. Edges are keyed by ID, which makes a repeated
// report idempotent while the reports from the two ends of a link remain
// separate edges.
func (t *Topology) AddFragment(fragment *domain.GraphFragment) {
	if fragment.IsEmpty() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, node := range fragment.Nodes {
		existing, ok := t.nodes[node.ID]
		if !ok || (node.Polled && !existing.Polled) {
			t.nodes[node.ID] = node
		}
	}

	for _, edge := range fragment.Edges {
		if edge.ID == "" {
			edge.ID = edge.GenerateID()
		}
		if _, ok := t.edges[edge.ID]; !ok {
			t.edges[edge.ID] = edge
		}
	}
}

// Counts returns the number of nodes and edges
func (t *Topology) Counts() (nodes, edges int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes), len(t.edges)
}

// Fragment returns a snapshot sorted by node ID and by edge endpoints
func (t *Topology) Fragment() *domain.GraphFragment {
	t.mu.Lock()
	defer t.mu.Unlock()

	fragment := domain.NewGraphFragment()
	for _, node := range t.nodes {
		fragment.AddNode(node)
	}
	for _, edge := range t.edges {
		fragment.AddEdge(edge)
	}

	sort.Slice(fragment.Nodes, func(i, j int) bool {
		return fragment.Nodes[i].ID < fragment.Nodes[j].ID
	})
	sort.Slice(fragment.Edges, func(i, j int) bool {
		a, b := fragment.Edges[i], fragment.Edges[j]
		if a.FromID != b.FromID {
			return a.FromID < b.FromID
		}
		if a.LocalInterface != b.LocalInterface {
			return a.LocalInterface < b.LocalInterface
		}
		if a.ToID != b.ToID {
			return a.ToID < b.ToID
		}
		return a.RemoteInterface < b.RemoteInterface
	})

	return fragment
}

// Export writes the snapshot in the named codec format
func (t *Topology) Export(w io.Writer, format string) error {
	exporter, err := codec.ExporterFor(format)
	if err != nil {
		return err
	}
	if err := exporter.Export(t.Fragment(), w); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}
