package connection

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/meshkv/pkg/resp"
)

// Manager holds the current connection of an interactive session. The
// connection is dialed on first use and redialed after a transport error.
type Manager struct {
	mu      sync.Mutex
	addr    string
	timeout time.Duration
	opts    []DialOption
	current *Client
}

// NewManager creates a manager for addr. Nothing is dialed yet.
func NewManager(addr string, timeout time.Duration, opts ...DialOption) *Manager {
	return &Manager{addr: addr, timeout: timeout, opts: opts}
}

// Connect switches to addr, closing the previous connection.
func (m *Manager) Connect(ctx context.Context, addr string) error {
	c, err := Dial(ctx, addr, m.timeout, m.opts...)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		_ = m.current.Close()
	}
	m.addr = addr
	m.current = c
	return nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		_ = m.current.Close()
		m.current = nil
	}
}

// Addr returns the server address.
func (m *Manager) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

// IsConnected reports whether a connection is open.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Do runs one command on the current connection, dialing if needed. A
// transport error drops the connection so the next call redials.
func (m *Manager) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		c, err := Dial(ctx, m.addr, m.timeout, m.opts...)
		if err != nil {
			return nil, err
		}
		m.current = c
	}

	f, err := m.current.Do(ctx, args...)
	if err != nil && !errors.Is(err, ErrNoCommand) {
		_ = m.current.Close()
		m.current = nil
	}
	return f, err
}
