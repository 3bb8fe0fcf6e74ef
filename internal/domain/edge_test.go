package domain

import (
	"testing"
)

func TestNewEdge(t *testing.T) {
	t.Run("creates edge with generated ID", func(t *testing.T) {
		edge := NewEdge("core1", "Te0/1", "edge1", "Te0/2")

		if edge.FromID != "core1" {
			t.Errorf("expected FromID 'core1', got %s", edge.FromID)
		}
		if edge.ToID != "edge1" {
			t.Errorf("expected ToID 'edge1', got %s", edge.ToID)
		}
		if edge.Type != EdgeTypeLLDP {
			t.Errorf("expected Type %s, got %s", EdgeTypeLLDP, edge.Type)
		}
		if edge.ID == "" {
			t.Error("expected ID to be generated")
		}
		if edge.Properties == nil {
			t.Error("expected Properties to be initialized")
		}
	})
}

func TestEdgeGenerateID(t *testing.T) {
	t.Run("generates consistent ID", func(t *testing.T) {
		edge1 := NewEdge("core1", "Te0/1", "edge1", "Te0/2")
		edge2 := NewEdge("core1", "Te0/1", "edge1", "Te0/2")

		if edge1.ID != edge2.ID {
			t.Error("expected same report to generate same ID")
		}
	})

	t.Run("mirror reports stay distinct", func(t *testing.T) {
		edge1 := NewEdge("core1", "Te0/1", "edge1", "Te0/2")
		edge2 := NewEdge("edge1", "Te0/2", "core1", "Te0/1")

		if edge1.ID == edge2.ID {
			t.Error("expected reports from both ends to generate different IDs")
		}
	})

	t.Run("parallel links stay distinct", func(t *testing.T) {
		edge1 := NewEdge("core1", "Te0/1", "edge1", "Te0/2")
		edge2 := NewEdge("core1", "Te0/3", "edge1", "Te0/4")

		if edge1.ID == edge2.ID {
			t.Error("expected different interfaces to generate different IDs")
		}
	})

	t.Run("generates short hash", func(t *testing.T) {
		edge := NewEdge("a", "Gi1", "b", "Gi2")
		if len(edge.ID) != 16 {
			t.Errorf("expected 16 hex chars, got %d", len(edge.ID))
		}
	})
}

func TestEdgeLabel(t *testing.T) {
	edge := NewEdge("CORE1", "Te0/1", "Edge1", "Te0/2")

	want := "core1:Te0/1_to_Te0/2:edge1"
	if got := edge.Label(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestGraphFragment(t *testing.T) {
	var nilFragment *GraphFragment
	if !nilFragment.IsEmpty() {
		t.Error("expected nil fragment to be empty")
	}

	fragment := NewGraphFragment()
	if !fragment.IsEmpty() {
		t.Error("expected new fragment to be empty")
	}

	fragment.AddNode(*NewNode("core1"))
	fragment.AddEdge(*NewEdge("core1", "Gi1", "edge1", "Gi2"))

	if fragment.IsEmpty() {
		t.Error("expected fragment with content to be non-empty")
	}
	if len(fragment.Nodes) != 1 || len(fragment.Edges) != 1 {
		t.Errorf("expected 1 node and 1 edge, got %d/%d", len(fragment.Nodes), len(fragment.Edges))
	}
}
