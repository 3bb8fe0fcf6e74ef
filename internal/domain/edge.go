package domain

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// EdgeType represents how an adjacency was learned
type EdgeType string

const (
	EdgeTypeLLDP EdgeType = "lldp"
)

// Edge represents one neighbor report: FromID saw ToID on LocalInterface,
// and ToID advertised RemoteInterface as its port.
type Edge struct {
	ID              string         `json:"id"`
	FromID          string         `json:"from_id"`
	ToID            string         `json:"to_id"`
	LocalInterface  string         `json:"local_interface"`
	RemoteInterface string         `json:"remote_interface"`
	Type            EdgeType       `json:"type"`
	Properties      map[string]any `json:"properties,omitempty"`
}

// NewEdge creates a new LLDP edge
func NewEdge(fromID, localIntf, toID, remoteIntf string) *Edge {
	edge := &Edge{
		FromID:          fromID,
		ToID:            toID,
		LocalInterface:  localIntf,
		RemoteInterface: remoteIntf,
		Type:            EdgeTypeLLDP,
		Properties:      make(map[string]any),
	}
	edge.ID = edge.GenerateID()
	return edge
}

// GenerateID creates a deterministic ID from the reporting side's view of the link.
// The endpoints are not normalized, so the reports from both ends of one
// cable produce two edges.
func (e *Edge) GenerateID() string {
	key := fmt.Sprintf("%s|%s|%s|%s|%s", e.FromID, e.LocalInterface, e.ToID, e.RemoteInterface, e.Type)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash[:8])
}

// Label returns the descriptive connection label, e.g.
// "core1:Te0/1_to_Te0/2:edge1"
func (e *Edge) Label() string {
	return strings.ToLower(e.FromID) + ":" + e.LocalInterface + "_to_" + e.RemoteInterface + ":" + strings.ToLower(e.ToID)
}

// SetProperty sets a property value
func (e *Edge) SetProperty(key string, value any) {
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	e.Properties[key] = value
}

// GetProperty gets a property value
func (e *Edge) GetProperty(key string) (any, bool) {
	if e.Properties == nil {
		return nil, false
	}
	val, ok := e.Properties[key]
	return val, ok
}
