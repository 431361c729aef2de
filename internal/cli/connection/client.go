package connection

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	tresp "github.com/tidwall/resp"

	"github.com/yndnr/meshkv/pkg/resp"
)

// DefaultTimeout bounds dialing and each request round trip.
const DefaultTimeout = 5 * time.Second

const readChunk = 16 * 1024

// ErrNoCommand is returned when a request has no arguments.
var ErrNoCommand = errors.New("connection: empty command")

// Client is one connection to a meshkv server. It is not safe for
// concurrent use; use a Pool to share connections between goroutines.
type Client struct {
	addr    string
	timeout time.Duration
	conn    net.Conn

	out     bytes.Buffer
	w       *tresp.Writer
	in      bytes.Buffer
	scratch []byte
}

// DialOption configures how a connection is dialed.
type DialOption func(*dialOptions)

type dialOptions struct {
	tls *tls.Config
}

// WithTLS makes the connection use TLS with cfg.
func WithTLS(cfg *tls.Config) DialOption {
	return func(o *dialOptions) {
		o.tls = cfg
	}
}

// Dial connects to addr. A non-positive timeout means DefaultTimeout.
func Dial(ctx context.Context, addr string, timeout time.Duration, opts ...DialOption) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var o dialOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		conn net.Conn
		err  error
	)
	nd := &net.Dialer{Timeout: timeout}
	if o.tls != nil {
		td := &tls.Dialer{NetDialer: nd, Config: o.tls}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = nd.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		scratch: make([]byte, readChunk),
	}
	c.w = tresp.NewWriter(&c.out)
	return c, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends one command and waits for its reply. An error reply from the
// server is returned as a resp.SimpleError frame, not as an error.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	replies, err := c.Pipeline(ctx, [][]string{args})
	if err != nil {
		return nil, err
	}
	return replies[0], nil
}

// Pipeline writes every command in one batch, then reads one reply per
// command in order.
func (c *Client) Pipeline(ctx context.Context, cmds [][]string) ([]resp.Frame, error) {
	c.out.Reset()
	for _, args := range cmds {
		if len(args) == 0 {
			return nil, ErrNoCommand
		}
		vals := make([]tresp.Value, len(args))
		for i, a := range args {
			vals[i] = tresp.StringValue(a)
		}
		if err := c.w.WriteArray(vals); err != nil {
			return nil, err
		}
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	if _, err := c.conn.Write(c.out.Bytes()); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	replies := make([]resp.Frame, 0, len(cmds))
	for range cmds {
		f, err := c.readReply()
		if err != nil {
			return nil, err
		}
		replies = append(replies, f)
	}
	return replies, nil
}

func (c *Client) readReply() (resp.Frame, error) {
	for {
		f, err := resp.Decode(&c.in)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, resp.ErrNotComplete) {
			return nil, fmt.Errorf("read reply: %w", err)
		}

		n, err := c.conn.Read(c.scratch)
		c.in.Write(c.scratch[:n])
		if err != nil && n == 0 {
			return nil, fmt.Errorf("read: %w", err)
		}
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ReplyError returns the server error carried by f, or nil.
func ReplyError(f resp.Frame) error {
	if e, ok := f.(resp.SimpleError); ok {
		return errors.New(string(e))
	}
	return nil
}
