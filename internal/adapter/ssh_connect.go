package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"lldpgraph/internal/domain"
)

// SSHConfig holds configuration for the SSH dialer
type SSHConfig struct {
	// ConnectionTimeout bounds TCP connect plus the SSH handshake
	ConnectionTimeout time.Duration
	// CommandTimeout bounds each command, including login and enable
	CommandTimeout time.Duration
	// TerminalWidth is sent with the PTY request
	TerminalWidth int
}

// DefaultSSHConfig returns sensible defaults
func DefaultSSHConfig() SSHConfig {
	return SSHConfig{
		ConnectionTimeout: 10 * time.Second,
		CommandTimeout:    30 * time.Second,
		TerminalWidth:     511,
	}
}

// SSHDialer opens interactive CLI sessions over SSH
type SSHDialer struct {
	connectTimeout time.Duration
	commandTimeout time.Duration
	width          int
}

// NewSSHDialer creates a dialer, filling zero values with defaults
func NewSSHDialer(config SSHConfig) *SSHDialer {
	defaults := DefaultSSHConfig()
	if config.ConnectionTimeout == 0 {
		config.ConnectionTimeout = defaults.ConnectionTimeout
	}
	if config.CommandTimeout == 0 {
		config.CommandTimeout = defaults.CommandTimeout
	}
	if config.TerminalWidth == 0 {
		config.TerminalWidth = defaults.TerminalWidth
	}

	return &SSHDialer{
		connectTimeout: config.ConnectionTimeout,
		commandTimeout: config.CommandTimeout,
		width:          config.TerminalWidth,
	}
}

// Dial connects to the device, starts a shell and waits for the first prompt
func (d *SSHDialer) Dial(ctx context.Context, device domain.Device) (Session, error) {
	addr := device.HostPort()

	client, err := d.connect(ctx, addr, device.Credentials)
	if err != nil {
		return nil, err
	}

	sess, err := startShell(ctx, client, d.commandTimeout, d.width)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: %w", addr, err)
	}

	return sess, nil
}

// connect establishes an SSH connection with password authentication.
// Keyboard-interactive is offered too since many network OSes only accept that.
func (d *SSHDialer) connect(ctx context.Context, addr string, creds domain.Credentials) (*ssh.Client, error) {
	config := buildSSHPasswordConfig(creds, d.connectTimeout)

	dialer := &net.Dialer{
		Timeout: d.connectTimeout,
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classifyDialError(addr, err)
	}

	// the handshake has no context support, so bound it with a deadline
	if err := conn.SetDeadline(time.Now().Add(d.connectTimeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w: %v", addr, ErrConnection, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, classifyHandshakeError(addr, err)
	}
	conn.SetDeadline(time.Time{})

	return ssh.NewClient(sshConn, chans, reqs), nil
}

// buildSSHPasswordConfig creates SSH config for password auth
func buildSSHPasswordConfig(creds domain.Credentials, timeout time.Duration) *ssh.ClientConfig {
	password := creds.Password
	answer := func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = password
		}
		return answers, nil
	}

	return &ssh.ClientConfig{
		User: creds.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(answer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}
}

func classifyDialError(addr string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %v", addr, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", addr, ErrConnection, err)
}

func classifyHandshakeError(addr string, err error) error {
	if strings.Contains(err.Error(), "unable to authenticate") {
		return fmt.Errorf("%s: %w: %v", addr, ErrAuthentication, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w: %v", addr, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", addr, ErrConnection, err)
}
