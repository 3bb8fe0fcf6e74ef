// Package lldp parses the text output of IOS-style LLDP show commands.
//
// The neighbor table is fixed-width-ish: the "Device ID" column is followed
// by "Local Intf", and long device IDs run into the interface column with no
// separating space. The parser locates the "Local" column in the header line
// and uses that offset to split such glued tokens.
package lldp

import (
	"fmt"
	"strings"

	"lldpgraph/internal/domain"
)

const (
	headerPrefix  = "Device ID"
	summaryPrefix = "Total"
	localColumn   = "Local"
)

// Neighbor is one parsed row of the neighbor table
type Neighbor struct {
	Hostname        string
	LocalInterface  string
	RemoteInterface string
	// Truncated is set when the device ID filled its whole column, so the
	// hostname may have been cut short by the device.
	Truncated bool
}

// IsHeader reports whether line is the neighbor table header
func IsHeader(line string) bool {
	return strings.HasPrefix(line, headerPrefix)
}

// HeaderOffset returns the column where "Local Intf" begins, or -1 when
// line is not a header.
func HeaderOffset(line string) int {
	if !IsHeader(line) {
		return -1
	}
	return strings.Index(line, localColumn)
}

// ParseNeighborLine parses one data row using the header-derived offset.
// It returns false for blank lines, the header, the "Total entries" summary,
// rows too short to hold a neighbor, and rows whose remote interface is a
// sub-interface.
func ParseNeighborLine(line string, offset int) (Neighbor, bool) {
	if strings.TrimSpace(line) == "" || IsHeader(line) || strings.HasPrefix(line, summaryPrefix) {
		return Neighbor{}, false
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Neighbor{}, false
	}
	first := fields[0]

	var n Neighbor
	if offset <= 0 || len(first) <= offset {
		if len(fields) < 3 {
			return Neighbor{}, false
		}
		n.Hostname = domain.ExtractShortName(first)
		n.LocalInterface = fields[1]
	} else {
		// device ID glued to the local interface
		n.Hostname = domain.ExtractShortName(first[:offset])
		n.LocalInterface = first[offset:]
		n.Truncated = len(n.Hostname) >= offset
	}
	n.RemoteInterface = fields[len(fields)-1]

	if IsSubInterface(n.RemoteInterface) {
		return Neighbor{}, false
	}
	return n, true
}

// IsSubInterface reports whether an interface name carries a ".unit" suffix
func IsSubInterface(intf string) bool {
	return strings.LastIndex(intf, ".") != -1
}

// ParseNeighborTable parses the output of "show lldp neighbors".
// Rows before the header are ignored.
func ParseNeighborTable(output string) []Neighbor {
	var neighbors []Neighbor
	offset := -1
	seenHeader := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if IsHeader(line) {
			offset = HeaderOffset(line)
			seenHeader = true
			continue
		}
		if !seenHeader {
			continue
		}
		if n, ok := ParseNeighborLine(line, offset); ok {
			neighbors = append(neighbors, n)
		}
	}

	return neighbors
}

// ParseHostname extracts the device name from "show running-config | include hostname"
func ParseHostname(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "hostname" {
			return fields[1], nil
		}
	}
	return "", fmt.Errorf("no hostname line in output")
}

// ParseSystemName extracts the neighbor name from
// "show lldp neighbor <intf> detail | include ^System Name".
// The domain suffix is stripped.
func ParseSystemName(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "System Name") {
			continue
		}
		fields := strings.Fields(line)
		name := fields[len(fields)-1]
		if name == "" || strings.HasSuffix(name, ":") {
			break
		}
		return domain.ExtractShortName(name), nil
	}
	return "", fmt.Errorf("no system name in output")
}
