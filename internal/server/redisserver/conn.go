package redisserver

import (
	"net"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"
)

const (
	// minRead is the free space guaranteed before each socket read.
	minRead = 16 * 1024
	// maxRead caps how much space one read may reserve for a large request.
	maxRead = 1024 * 1024
)

// Conn is a single client connection.
type Conn struct {
	netConn net.Conn
	id      string
	in      requestBuffer
	out     []byte
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(c net.Conn, limiter *rate.Limiter) *Conn {
	return &Conn{
		netConn: c,
		id:      ulid.Make().String(),
		limiter: limiter,
	}
}

// ID returns the connection ID, a ULID assigned at accept time.
func (c *Conn) ID() string {
	return c.id
}

// Close closes the underlying connection once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// fill performs one socket read into the input buffer. When the request
// being received is known to be large, enough space for the rest of it (up
// to maxRead) is reserved first.
func (c *Conn) fill() error {
	want := minRead
	if rest := c.in.pending(); rest > want {
		want = min(rest, maxRead)
	}

	c.in.Grow(want)
	buf := c.in.AvailableBuffer()
	n, err := c.netConn.Read(buf[:cap(buf)])
	if n > 0 {
		c.in.Write(buf[:n])
	}
	return err
}
