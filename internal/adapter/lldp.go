package adapter

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lldpgraph/internal/domain"
	"lldpgraph/internal/lldp"
)

// Show commands issued on every device
const (
	cmdHostname     = "show run | include hostname"
	cmdNeighbors    = "show lldp neighbors | begin ^Device"
	cmdNeighborName = "show lldp neighbor %s detail | include ^System Name"
)

// DeviceReport is the payload of a device-complete event
type DeviceReport struct {
	Address   string `json:"address"`
	Hostname  string `json:"hostname"`
	Neighbors int    `json:"neighbors"`
}

// LLDPCollector builds the topology fragment one device reports over LLDP
type LLDPCollector struct {
	dialer    Dialer
	publisher EventPublisher
}

// NewLLDPCollector creates a collector that opens sessions with dialer
func NewLLDPCollector(dialer Dialer) *LLDPCollector {
	return &LLDPCollector{dialer: dialer}
}

// SetEventPublisher sets the publisher for device-complete events
func (c *LLDPCollector) SetEventPublisher(pub EventPublisher) {
	c.publisher = pub
}

// Name returns the collector name
func (c *LLDPCollector) Name() string {
	return "lldp"
}

// Collect logs into the device, reads its LLDP neighbor table and returns the
// local node, one node per neighbor and one edge per neighbor row
func (c *LLDPCollector) Collect(ctx context.Context, device domain.Device) (*domain.GraphFragment, error) {
	sess, err := c.dialer.Dial(ctx, device)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := sess.Enable(ctx, device.Credentials.Secret); err != nil {
		if !errors.Is(err, ErrEnable) {
			return nil, fmt.Errorf("%s: %w", device.Address, err)
		}
		log.Printf("LLDP: %s: %v, continuing unprivileged", device.Address, err)
	}

	localName, err := c.hostname(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", device.Address, err)
	}

	out, err := sess.SendCommand(ctx, cmdNeighbors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", device.Address, err)
	}
	neighbors := lldp.ParseNeighborTable(out)

	for i := range neighbors {
		if !neighbors[i].Truncated {
			continue
		}
		name, err := c.systemName(ctx, sess, neighbors[i].LocalInterface)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", device.Address, err)
		}
		if name != "" {
			neighbors[i].Hostname = name
		}
	}

	fragment := buildFragment(device, localName, neighbors)
	log.Printf("LLDP: %s (%s) reported %d neighbors", localName, device.Address, len(neighbors))

	if c.publisher != nil {
		c.publisher.PublishDiscoveryEvent("device-complete", DeviceReport{
			Address:   device.Address,
			Hostname:  localName,
			Neighbors: len(neighbors),
		})
	}

	return fragment, nil
}

// hostname reads the configured hostname, falling back to the prompt name
func (c *LLDPCollector) hostname(ctx context.Context, sess Session) (string, error) {
	out, err := sess.SendCommand(ctx, cmdHostname)
	if err != nil {
		return "", err
	}
	name, err := lldp.ParseHostname(out)
	if err != nil {
		log.Printf("LLDP: %v, using prompt name %q", err, sess.Prompt())
		return sess.Prompt(), nil
	}
	return name, nil
}

// systemName resolves a neighbor name that did not fit its table column.
// An empty name means the detail output had none and the sliced name stays.
func (c *LLDPCollector) systemName(ctx context.Context, sess Session, localIntf string) (string, error) {
	out, err := sess.SendCommand(ctx, fmt.Sprintf(cmdNeighborName, localIntf))
	if err != nil {
		return "", err
	}
	name, err := lldp.ParseSystemName(out)
	if err != nil {
		log.Printf("LLDP: %s: %v", localIntf, err)
		return "", nil
	}
	return name, nil
}

func buildFragment(device domain.Device, localName string, neighbors []lldp.Neighbor) *domain.GraphFragment {
	fragment := domain.NewGraphFragment()

	local := domain.NewNode(localName)
	local.Address = device.Address
	local.Polled = true
	local.Source = "lldp"
	fragment.AddNode(*local)

	seen := map[string]bool{localName: true}
	for _, n := range neighbors {
		if !seen[n.Hostname] {
			seen[n.Hostname] = true
			node := domain.NewNode(n.Hostname)
			node.Source = "lldp"
			node.SetProperty("title", "Neighbor of "+localName)
			fragment.AddNode(*node)
		}

		edge := domain.NewEdge(localName, n.LocalInterface, n.Hostname, n.RemoteInterface)
		edge.SetProperty("reported_by", device.Address)
		fragment.AddEdge(*edge)
	}

	return fragment
}
