package adapter

import "time"

// NmapOption is a functional option for configuring NmapScanner
type NmapOption func(*NmapScanner)

// WithScanPort sets the port a host must have open to be polled.
// Out-of-range values are ignored.
func WithScanPort(port int) NmapOption {
	return func(s *NmapScanner) {
		if port > 0 && port <= 65535 {
			s.port = port
		}
	}
}

// WithScanTimeout bounds the whole scan
func WithScanTimeout(d time.Duration) NmapOption {
	return func(s *NmapScanner) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSkipHostDiscovery treats all hosts as online (-Pn).
// Useful for management networks that block ICMP.
func WithSkipHostDiscovery(skip bool) NmapOption {
	return func(s *NmapScanner) {
		s.skipHostDiscovery = skip
	}
}
