package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lldpgraph/internal/adapter"
	"lldpgraph/internal/domain"
)

// fakeCollector returns canned fragments or errors per address
type fakeCollector struct {
	fragments map[string]*domain.GraphFragment
	errs      map[string]error
	delay     time.Duration

	active    int32
	maxActive int32
	calls     int32
}

func (c *fakeCollector) Name() string { return "fake" }

func (c *fakeCollector) Collect(ctx context.Context, device domain.Device) (*domain.GraphFragment, error) {
	atomic.AddInt32(&c.calls, 1)
	n := atomic.AddInt32(&c.active, 1)
	defer atomic.AddInt32(&c.active, -1)
	for {
		max := atomic.LoadInt32(&c.maxActive)
		if n <= max || atomic.CompareAndSwapInt32(&c.maxActive, max, n) {
			break
		}
	}

	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := c.errs[device.Address]; ok {
		return nil, err
	}
	return c.fragments[device.Address], nil
}

func devicesFor(addrs ...string) []domain.Device {
	devices := make([]domain.Device, 0, len(addrs))
	for _, a := range addrs {
		devices = append(devices, domain.NewDevice(a, domain.Credentials{Username: "u", Password: "p"}))
	}
	return devices
}

// collectEvents subscribes to bus and returns a function that stops and
// returns everything received
func collectEvents(bus *EventBus) func() []Event {
	ch := make(chan Event, 256)
	bus.Subscribe(ch)

	var (
		mu     sync.Mutex
		events []Event
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		for e := range ch {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		}
	}()

	return func() []Event {
		bus.Unsubscribe(ch)
		close(ch)
		<-done
		mu.Lock()
		defer mu.Unlock()
		return events
	}
}

func countEvents(events []Event, eventType EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func TestDiscoveryRun(t *testing.T) {
	collector := &fakeCollector{
		fragments: map[string]*domain.GraphFragment{
			"10.0.0.1": deviceFragment("core1", "10.0.0.1", [3]string{"Te0/1", "edge1", "Te0/2"}),
			"10.0.0.2": deviceFragment("edge1", "10.0.0.2", [3]string{"Te0/2", "core1", "Te0/1"}),
		},
	}
	bus := NewEventBus()
	stop := collectEvents(bus)

	result, err := NewDiscovery(collector, bus, 2).Run(context.Background(), devicesFor("10.0.0.1", "10.0.0.2"))
	require.NoError(t, err)
	events := stop()

	_, parseErr := uuid.Parse(result.RunID)
	assert.NoError(t, parseErr)
	assert.Equal(t, 2, result.Devices)
	assert.Empty(t, result.Failures)
	assert.Len(t, result.Fragment.Nodes, 2)
	assert.Len(t, result.Fragment.Edges, 2)
	assert.Positive(t, result.Duration)

	assert.Equal(t, 2, countEvents(events, EventDeviceStarted))
	assert.Equal(t, 1, countEvents(events, EventDiscoveryComplete))
	assert.Equal(t, EventDiscoveryComplete, events[len(events)-1].Type)
}

func TestDiscoverySkipsUnreachable(t *testing.T) {
	collector := &fakeCollector{
		fragments: map[string]*domain.GraphFragment{
			"10.0.0.1": deviceFragment("core1", "10.0.0.1", [3]string{"Te0/1", "edge1", "Te0/2"}),
		},
		errs: map[string]error{
			"10.0.0.2": fmt.Errorf("10.0.0.2:22: %w: i/o timeout", adapter.ErrTimeout),
			"10.0.0.3": fmt.Errorf("10.0.0.3:22: %w: connection refused", adapter.ErrConnection),
		},
	}
	bus := NewEventBus()
	stop := collectEvents(bus)

	result, err := NewDiscovery(collector, bus, 1).Run(context.Background(), devicesFor("10.0.0.1", "10.0.0.2", "10.0.0.3"))
	require.NoError(t, err)
	events := stop()

	require.Len(t, result.Failures, 2)
	failed := map[string]error{}
	for _, f := range result.Failures {
		failed[f.Address] = f.Err
		assert.NotEmpty(t, f.Message)
	}
	assert.ErrorIs(t, failed["10.0.0.2"], adapter.ErrTimeout)
	assert.ErrorIs(t, failed["10.0.0.3"], adapter.ErrConnection)

	assert.Len(t, result.Fragment.Nodes, 2)
	assert.Equal(t, 2, countEvents(events, EventDeviceFailed))
}

func TestDiscoveryAbortsOnAuthFailure(t *testing.T) {
	addrs := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5", "10.0.0.6"}
	collector := &fakeCollector{
		errs: map[string]error{
			"10.0.0.1": fmt.Errorf("10.0.0.1:22: %w", adapter.ErrAuthentication),
		},
		delay: 50 * time.Millisecond,
	}

	result, err := NewDiscovery(collector, nil, 1).Run(context.Background(), devicesFor(addrs...))
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrAuthentication)
	assert.NotErrorIs(t, err, ErrInterrupted)
	require.NotNil(t, result)

	// with one worker the failing first device stops the rest
	assert.Less(t, int(atomic.LoadInt32(&collector.calls)), len(addrs))
}

func TestDiscoveryInterrupted(t *testing.T) {
	collector := &fakeCollector{delay: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	result, err := NewDiscovery(collector, nil, 4).Run(ctx, devicesFor("10.0.0.1", "10.0.0.2", "10.0.0.3"))
	assert.True(t, errors.Is(err, ErrInterrupted), "got %v", err)
	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, result)
	assert.Empty(t, result.Failures)
}

func TestDiscoveryConcurrencyLimit(t *testing.T) {
	collector := &fakeCollector{delay: 20 * time.Millisecond}
	addrs := make([]string, 12)
	for i := range addrs {
		addrs[i] = fmt.Sprintf("10.0.0.%d", i+1)
	}

	_, err := NewDiscovery(collector, nil, 3).Run(context.Background(), devicesFor(addrs...))
	require.NoError(t, err)

	assert.Equal(t, int32(12), atomic.LoadInt32(&collector.calls))
	assert.LessOrEqual(t, atomic.LoadInt32(&collector.maxActive), int32(3))
}

func TestNewDiscoveryDefaultLimit(t *testing.T) {
	d := NewDiscovery(&fakeCollector{}, nil, 0)
	assert.Equal(t, DefaultMaxConcurrent, d.maxConcurrent)
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	ch := make(chan Event, 1)
	bus.Subscribe(ch)

	bus.PublishDiscoveryEvent("device-complete", "core1")
	// full channel: dropped, not blocked
	bus.Publish(Event{Type: EventDeviceFailed})

	e := <-ch
	assert.Equal(t, EventDeviceComplete, e.Type)
	assert.Equal(t, "core1", e.Payload)

	bus.Unsubscribe(ch)
	bus.Publish(Event{Type: EventDeviceStarted})
	assert.Empty(t, ch)
}

func TestResultExport(t *testing.T) {
	collector := &fakeCollector{
		fragments: map[string]*domain.GraphFragment{
			"10.0.0.1": deviceFragment("core1", "10.0.0.1", [3]string{"Te0/1", "edge1", "Te0/2"}),
		},
	}

	result, err := NewDiscovery(collector, nil, 1).Run(context.Background(), devicesFor("10.0.0.1"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.Export(&buf, "yaml"))
	assert.Contains(t, buf.String(), "local_interface: Te0/1")

	// a Result built by hand exports its fragment
	manual := &Result{Fragment: result.Fragment}
	buf.Reset()
	require.NoError(t, manual.Export(&buf, "json"))
	assert.Contains(t, buf.String(), `"to_id": "edge1"`)
}
