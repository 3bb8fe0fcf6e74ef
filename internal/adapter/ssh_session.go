package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// promptPattern matches an exec prompt such as "core1>" or "asr_edge-01#"
var promptPattern = regexp.MustCompile(`^([A-Za-z0-9_.\-/:()]+)([>#])\s*$`)

// chunk is one read from the shell's stdout
type chunk struct {
	data []byte
	err  error
}

// sshSession drives an interactive shell on a network device
type sshSession struct {
	client     *ssh.Client
	session    *ssh.Session
	stdin      io.WriteCloser
	chunks     <-chan chunk
	done       chan struct{}
	closeOnce  sync.Once
	pending    bytes.Buffer
	name       string
	privileged bool
	timeout    time.Duration
}

// startShell opens a PTY shell, waits for the first prompt and disables paging
func startShell(ctx context.Context, client *ssh.Client, timeout time.Duration, width int) (*sshSession, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create session: %v", ErrConnection, err)
	}

	if err := session.RequestPty("vt100", 24, width, ssh.TerminalModes{}); err != nil {
		session.Close()
		return nil, fmt.Errorf("%w: failed to request PTY: %v", ErrConnection, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("%w: stdin: %v", ErrConnection, err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("%w: stdout: %v", ErrConnection, err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		return nil, fmt.Errorf("%w: failed to start shell: %v", ErrConnection, err)
	}

	s := &sshSession{
		client:  client,
		session: session,
		stdin:   stdin,
		done:    make(chan struct{}),
		timeout: timeout,
	}
	s.chunks = s.pump(stdout)

	out, err := s.readUntil(ctx, isAnyPrompt)
	if err != nil {
		s.closeSession()
		return nil, fmt.Errorf("waiting for login prompt: %w", err)
	}
	s.setPrompt(out)

	for _, cmd := range []string{"terminal length 0", fmt.Sprintf("terminal width %d", width)} {
		if _, err := s.SendCommand(ctx, cmd); err != nil {
			s.closeSession()
			return nil, fmt.Errorf("%s: %w", cmd, err)
		}
	}

	return s, nil
}

// pump copies stdout into a channel until the session ends
func (s *sshSession) pump(r io.Reader) <-chan chunk {
	ch := make(chan chunk, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				select {
				case ch <- chunk{data: data}:
				case <-s.done:
					return
				}
			}
			if err != nil {
				select {
				case ch <- chunk{err: err}:
				case <-s.done:
				}
				return
			}
		}
	}()
	return ch
}

// readUntil accumulates output until match accepts it or the command timeout fires
func (s *sshSession) readUntil(ctx context.Context, match func(string) bool) (string, error) {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	for {
		if match(s.pending.String()) {
			out := s.pending.String()
			s.pending.Reset()
			return out, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			return "", fmt.Errorf("%w waiting for prompt after %s", ErrTimeout, s.timeout)
		case c, ok := <-s.chunks:
			if !ok {
				return "", fmt.Errorf("%w: session closed", ErrConnection)
			}
			if c.err != nil {
				return "", fmt.Errorf("%w: %v", ErrConnection, c.err)
			}
			s.pending.Write(c.data)
		}
	}
}

func (s *sshSession) write(line string) error {
	if _, err := io.WriteString(s.stdin, line+"\n"); err != nil {
		return fmt.Errorf("%w: write: %v", ErrConnection, err)
	}
	return nil
}

// setPrompt records the device name and privilege level from a prompt line
func (s *sshSession) setPrompt(out string) {
	m := promptPattern.FindStringSubmatch(lastLine(out))
	if m == nil {
		return
	}
	s.name = m[1]
	s.privileged = m[2] == "#"
}

// isPrompt matches this device's own prompt at the end of the buffer
func (s *sshSession) isPrompt(buf string) bool {
	m := promptPattern.FindStringSubmatch(lastLine(buf))
	return m != nil && (s.name == "" || m[1] == s.name)
}

// Prompt returns the device name shown in the CLI prompt
func (s *sshSession) Prompt() string {
	return s.name
}

// Enable enters privileged exec mode
func (s *sshSession) Enable(ctx context.Context, secret string) error {
	if s.privileged {
		return nil
	}

	if err := s.write("enable"); err != nil {
		return err
	}

	promptOrPassword := func(buf string) bool {
		return isPasswordPrompt(buf) || s.isPrompt(buf)
	}

	out, err := s.readUntil(ctx, promptOrPassword)
	if err != nil {
		return err
	}

	// IOS asks up to three times before giving up
	for attempt := 0; isPasswordPrompt(out) && attempt < 3; attempt++ {
		answer := secret
		if attempt > 0 {
			answer = ""
		}
		if err := s.write(answer); err != nil {
			return err
		}
		if out, err = s.readUntil(ctx, promptOrPassword); err != nil {
			return err
		}
	}

	s.setPrompt(out)
	if !s.privileged {
		return fmt.Errorf("%w on %s", ErrEnable, s.name)
	}
	return nil
}

// SendCommand runs cmd and returns the output between the echo and the prompt
func (s *sshSession) SendCommand(ctx context.Context, cmd string) (string, error) {
	if err := s.write(cmd); err != nil {
		return "", err
	}
	out, err := s.readUntil(ctx, s.isPrompt)
	if err != nil {
		return "", fmt.Errorf("%q: %w", cmd, err)
	}
	return cleanOutput(out, cmd), nil
}

// Close ends the shell and the SSH connection
func (s *sshSession) Close() error {
	s.write("exit")
	return s.closeSession()
}

func (s *sshSession) closeSession() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.session.Close()
		err = s.client.Close()
	})
	return err
}

// cleanOutput strips carriage returns, the command echo and the trailing prompt
func cleanOutput(out, cmd string) string {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "")

	lines := strings.Split(out, "\n")
	if len(lines) > 0 && strings.Contains(lines[0], cmd) {
		lines = lines[1:]
	}
	if len(lines) > 0 && promptPattern.MatchString(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func lastLine(buf string) string {
	buf = strings.TrimRight(buf, " ")
	if idx := strings.LastIndexAny(buf, "\r\n"); idx >= 0 {
		return buf[idx+1:]
	}
	return buf
}

func isAnyPrompt(buf string) bool {
	return promptPattern.MatchString(lastLine(buf))
}

func isPasswordPrompt(buf string) bool {
	return strings.HasSuffix(strings.TrimSpace(lastLine(buf)), "assword:")
}
