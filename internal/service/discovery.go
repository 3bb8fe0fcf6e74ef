package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lldpgraph/internal/adapter"
	"lldpgraph/internal/domain"
)

// ErrInterrupted is returned when the caller's context is cancelled mid-run
var ErrInterrupted = errors.New("script ended by user")

// DefaultMaxConcurrent bounds parallel device sessions when no limit is given
const DefaultMaxConcurrent = 10

// Failure records a device that was skipped
type Failure struct {
	Address string `json:"address"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

// DeviceEvent is the payload of device-started and device-failed events
type DeviceEvent struct {
	RunID   string `json:"run_id"`
	Address string `json:"address"`
	Error   string `json:"error,omitempty"`
}

// Result summarizes one discovery run
type Result struct {
	RunID    string
	Fragment *domain.GraphFragment
	Devices  int
	Failures []Failure
	Duration time.Duration

	topology *Topology
}

// Export writes the merged topology in the named codec format
func (r *Result) Export(w io.Writer, format string) error {
	if r.topology == nil {
		r.topology = NewTopology()
		r.topology.AddFragment(r.Fragment)
	}
	return r.topology.Export(w, format)
}

// Discovery polls devices in parallel and merges their fragments
type Discovery struct {
	collector     adapter.Collector
	eventBus      *EventBus
	maxConcurrent int
}

// NewDiscovery creates a discovery service
func NewDiscovery(collector adapter.Collector, eventBus *EventBus, maxConcurrent int) *Discovery {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Discovery{
		collector:     collector,
		eventBus:      eventBus,
		maxConcurrent: maxConcurrent,
	}
}

func (d *Discovery) publish(eventType EventType, payload interface{}) {
	if d.eventBus != nil {
		d.eventBus.Publish(Event{Type: eventType, Payload: payload})
	}
}

// Run collects every device with at most maxConcurrent sessions open.
//
// A device that times out or cannot be reached is recorded in
// Result.Failures and skipped. An authentication failure cancels the
// remaining devices and is returned. Cancelling ctx stops the run with
// ErrInterrupted. The partial result is returned in every case.
func (d *Discovery) Run(ctx context.Context, devices []domain.Device) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	topology := NewTopology()

	log.Printf("Discovery: run %s polling %d devices (%d workers, collector=%s)",
		runID, len(devices), d.maxConcurrent, d.collector.Name())

	var (
		mu       sync.Mutex
		failures []Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.maxConcurrent)

	for _, device := range devices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			d.publish(EventDeviceStarted, DeviceEvent{RunID: runID, Address: device.Address})

			fragment, err := d.collector.Collect(gctx, device)
			if err != nil {
				if adapter.IsFatal(err) {
					d.publish(EventDeviceFailed, DeviceEvent{RunID: runID, Address: device.Address, Error: err.Error()})
					return err
				}
				if gctx.Err() != nil {
					return gctx.Err()
				}

				log.Printf("Discovery: skipping %s: %v", device.Address, err)
				mu.Lock()
				failures = append(failures, Failure{Address: device.Address, Err: err, Message: err.Error()})
				mu.Unlock()
				d.publish(EventDeviceFailed, DeviceEvent{RunID: runID, Address: device.Address, Error: err.Error()})
				return nil
			}

			topology.AddFragment(fragment)
			return nil
		})
	}

	err := g.Wait()

	result := &Result{
		RunID:    runID,
		Fragment: topology.Fragment(),
		Devices:  len(devices),
		Failures: failures,
		Duration: time.Since(start),
		topology: topology,
	}

	nodes, edges := topology.Counts()
	log.Printf("Discovery: run %s finished in %s: %d nodes, %d edges, %d failures",
		runID, result.Duration.Round(time.Millisecond), nodes, edges, len(failures))
	d.publish(EventDiscoveryComplete, map[string]interface{}{
		"run_id":   runID,
		"devices":  len(devices),
		"nodes":    nodes,
		"edges":    edges,
		"failures": len(failures),
	})

	if err != nil {
		if ctx.Err() != nil && !adapter.IsFatal(err) {
			return result, ErrInterrupted
		}
		return result, fmt.Errorf("discovery aborted: %w", err)
	}
	return result, nil
}
