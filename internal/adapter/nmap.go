package adapter

import (
	"context"
	"fmt"
	"log"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"
)

// NmapScanner finds devices to poll by scanning address ranges for an open SSH port
type NmapScanner struct {
	port              int
	timeout           time.Duration
	skipHostDiscovery bool
	publisher         EventPublisher
}

// NewNmapScanner creates a scanner for the default SSH port
func NewNmapScanner(opts ...NmapOption) *NmapScanner {
	s := &NmapScanner{
		port:    22,
		timeout: 10 * time.Minute,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetEventPublisher sets the event publisher for progress updates
func (s *NmapScanner) SetEventPublisher(pub EventPublisher) {
	s.publisher = pub
}

func (s *NmapScanner) publishProgress(eventType string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.PublishDiscoveryEvent(eventType, payload)
	}
}

// Scan runs nmap over targets (CIDR ranges, addresses or hostnames) and
// returns the sorted addresses of hosts that are up with the SSH port open
func (s *NmapScanner) Scan(ctx context.Context, targets []string) ([]string, error) {
	targets, err := validateTargets(targets)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no scan targets")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := []nmap.Option{
		nmap.WithTargets(targets...),
		nmap.WithPorts(strconv.Itoa(s.port)),
	}
	if s.skipHostDiscovery {
		opts = append(opts, nmap.WithSkipHostDiscovery())
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	log.Printf("Nmap: scanning %v for port %d", targets, s.port)
	s.publishProgress("scan-started", map[string]interface{}{
		"targets": targets,
		"port":    s.port,
	})

	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		log.Printf("Nmap: warnings: %v", *warnings)
	}

	addrs, err := sshHosts(result, s.port)
	if err != nil {
		return nil, err
	}

	log.Printf("Nmap: scan complete, %d hosts with port %d open", len(addrs), s.port)
	s.publishProgress("scan-complete", map[string]interface{}{
		"discovered": len(addrs),
	})
	return addrs, nil
}

// sshHosts picks the hosts from a scan result that are up and have port open.
// IPv4 addresses are preferred when a host reports several.
func sshHosts(result *nmap.Run, port int) ([]string, error) {
	if result == nil {
		return nil, fmt.Errorf("nil scan result")
	}

	var addrs []string
	for _, host := range result.Hosts {
		if len(host.Addresses) == 0 || host.Status.State != "up" {
			continue
		}
		if !hasOpenPort(host.Ports, port) {
			continue
		}

		ip := ""
		for _, addr := range host.Addresses {
			if addr.AddrType == "ipv4" {
				ip = addr.Addr
				break
			}
		}
		if ip == "" {
			ip = host.Addresses[0].Addr
		}
		addrs = append(addrs, ip)
	}

	sort.Slice(addrs, func(i, j int) bool {
		a, b := net.ParseIP(addrs[i]), net.ParseIP(addrs[j])
		if a == nil || b == nil {
			return addrs[i] < addrs[j]
		}
		return string(a.To16()) < string(b.To16())
	})
	return addrs, nil
}

func hasOpenPort(ports []nmap.Port, port int) bool {
	for _, p := range ports {
		if int(p.ID) == port && p.State.State == "open" {
			return true
		}
	}
	return false
}

// validateTargets normalizes CIDR targets and drops blanks
func validateTargets(targets []string) ([]string, error) {
	var out []string
	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if strings.Contains(target, "/") {
			_, ipNet, err := net.ParseCIDR(target)
			if err != nil {
				return nil, fmt.Errorf("invalid CIDR %s: %w", target, err)
			}
			target = ipNet.String()
		}
		out = append(out, target)
	}
	return out, nil
}
