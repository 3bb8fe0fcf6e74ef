// Package adapter talks to network devices.
//
// # Sessions
//
// SSHDialer opens an interactive PTY shell on a device over SSH and returns a
// Session. The session tracks the CLI prompt ("core1>" or "core1#"), enters
// privileged mode with the enable secret and disables paging, so each
// SendCommand returns the complete output of one show command.
//
// Failures are classified with sentinel errors. ErrTimeout and ErrConnection
// skip a device; ErrAuthentication is fatal to a run because the same
// credentials are used for every device.
//
// # Collectors
//
// LLDPCollector reads the hostname and the LLDP neighbor table of one device
// and returns them as a domain.GraphFragment.
//
// # Scanning
//
// NmapScanner finds candidate devices by scanning address ranges for an open
// SSH port.
package adapter
