package adapter

import (
	"context"
	"errors"

	"lldpgraph/internal/domain"
)

// Failure classes for a device session. A connection failure or timeout skips
// the device; an authentication failure aborts the whole run.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrTimeout        = errors.New("timed out")
	ErrConnection     = errors.New("connection failed")
	ErrEnable         = errors.New("enable mode refused")
)

// IsFatal reports whether err should stop discovery of all devices
func IsFatal(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// Session is an interactive CLI session on one device
type Session interface {
	// Prompt returns the device name shown in the CLI prompt
	Prompt() string

	// Enable enters privileged mode with the enable secret.
	// It is a no-op when the session is already privileged.
	Enable(ctx context.Context, secret string) error

	// SendCommand runs a show command and returns its output without the
	// command echo or the trailing prompt
	SendCommand(ctx context.Context, cmd string) (string, error)

	// Close ends the session
	Close() error
}

// Dialer opens CLI sessions to devices
type Dialer interface {
	Dial(ctx context.Context, device domain.Device) (Session, error)
}

// Collector gathers the topology fragment visible from one device
type Collector interface {
	Name() string
	Collect(ctx context.Context, device domain.Device) (*domain.GraphFragment, error)
}

// EventPublisher allows adapters to publish progress events
type EventPublisher interface {
	PublishDiscoveryEvent(eventType string, payload interface{})
}
