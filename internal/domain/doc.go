// Package domain defines the core types for the lldpgraph topology mapper.
//
// # Core Types
//
// Device is the set of connection parameters for one management address.
// It has no lifecycle beyond the SSH session that uses it.
//
// Node is a device hostname in the topology. Nodes are identified by their
// short hostname only; the role used for styling is inferred from the
// hostname prefix convention (asr_, sw_, l3s_/l3_).
//
// Edge is a single LLDP neighbor report. Reports from both ends of a link are
// kept as separate edges.
//
// GraphFragment carries the nodes and edges learned from one device, and
// Graph is the vis-network view derived from the merged fragments.
//
// This package has no I/O and no external dependencies.
package domain
