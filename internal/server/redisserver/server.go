package redisserver

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/meshkv/internal/storage/memory"
	"github.com/yndnr/meshkv/internal/telemetry/logger"
	"github.com/yndnr/meshkv/internal/telemetry/metric"
	"github.com/yndnr/meshkv/pkg/resp"
)

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadTimeout bounds the wait for the rest of a partially received request.
	// Helps prevent slowloris attacks.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing replies.
	WriteTimeout time.Duration
	// IdleTimeout closes connections with no pending request. Zero disables it.
	IdleTimeout time.Duration
	// RateLimit is the per-connection command rate in commands/s.
	// Set to 0 to disable rate limiting.
	RateLimit float64
	// RateBurst is the number of commands allowed in a burst.
	RateBurst int
	// MaxConns caps concurrent connections. Zero means unlimited.
	MaxConns int
	// TLS, when set, makes the listener accept TLS connections only.
	TLS *tls.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		RateBurst:    100,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// Server is the RESP protocol server.
type Server struct {
	cfg     *Config
	backend *memory.Backend
	logger  logger.Logger
	metrics *metric.Registry

	lnMu    sync.Mutex
	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	connMu sync.Mutex
	conns  map[*Conn]struct{}
	slots  chan struct{}
}

// New creates a server executing commands against backend.
func New(cfg *Config, backend *memory.Backend, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:     cfg,
		backend: backend,
		logger:  logger.Default(),
		conns:   make(map[*Conn]struct{}),
	}
	if cfg.MaxConns > 0 {
		s.slots = make(chan struct{}, cfg.MaxConns)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start binds the listen address and accepts connections in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	if s.cfg.TLS != nil {
		ln = tls.NewListener(ln, s.cfg.TLS)
	}

	s.lnMu.Lock()
	s.ln = ln
	s.lnMu.Unlock()
	s.running.Store(true)

	s.logger.Info("redis server listening", "addr", ln.Addr().String(), "tls", s.cfg.TLS != nil)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.logger.Error("redis server accept error", "error", err)
		}
	}()

	return nil
}

// Running reports whether the listener is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.lnMu.Lock()
	defer s.lnMu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting, closes open connections and waits for their
// goroutines to exit or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	s.lnMu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	s.lnMu.Unlock()

	s.connMu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.connMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		if !s.acquireSlot() {
			s.reject(nc)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.releaseSlot()
			s.serveConn(ctx, newConn(nc, s.newLimiter()))
		}()
	}
}

func (s *Server) acquireSlot() bool {
	if s.slots == nil {
		return true
	}
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Server) releaseSlot() {
	if s.slots != nil {
		<-s.slots
	}
}

func (s *Server) reject(nc net.Conn) {
	s.logger.Warn("connection rejected, max_conns reached",
		"remote", nc.RemoteAddr().String(),
		"max_conns", s.cfg.MaxConns,
	)
	_ = nc.SetWriteDeadline(time.Now().Add(time.Second))
	_, _ = nc.Write(resp.Encode(resp.NewError("ERR max number of clients reached")))
	_ = nc.Close()
}

func (s *Server) newLimiter() *rate.Limiter {
	if s.cfg.RateLimit <= 0 {
		return nil
	}
	burst := s.cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(s.cfg.RateLimit), burst)
}

func (s *Server) track(c *Conn, open bool) {
	s.connMu.Lock()
	if open {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
	s.connMu.Unlock()

	if s.metrics == nil {
		return
	}
	if open {
		s.metrics.ConnectionsActive.Inc()
		s.metrics.ConnectionsTotal.Inc()
	} else {
		s.metrics.ConnectionsActive.Dec()
	}
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	s.track(c, true)
	defer s.track(c, false)
	defer c.Close()

	ctx = logger.WithConnID(logger.WithLogger(ctx, s.logger), c.ID())
	log := logger.L(ctx).With("remote", c.RemoteAddr().String())
	log.Debug("connection accepted")

	for {
		for {
			f, err := c.in.next()
			if errors.Is(err, resp.ErrNotComplete) {
				break
			}
			if err != nil {
				if s.metrics != nil {
					s.metrics.ProtocolErrors.Inc()
				}
				log.Warn("protocol error, closing connection", "error", err)
				c.out = resp.AppendFrame(c.out, resp.NewError(protocolMessage(err)))
				_ = s.flush(c)
				return
			}

			reply, quit := s.handle(ctx, c, f)
			c.out = resp.AppendFrame(c.out, reply)
			if quit {
				_ = s.flush(c)
				log.Debug("connection closed by QUIT")
				return
			}
		}

		if err := s.flush(c); err != nil {
			log.Debug("connection write error", "error", err)
			return
		}

		// Idle between requests, tighter once a request has started arriving.
		timeout := s.cfg.IdleTimeout
		if c.in.Len() > 0 {
			timeout = s.cfg.ReadTimeout
		}
		var deadline time.Time
		if timeout > 0 {
			deadline = time.Now().Add(timeout)
		}
		if err := c.netConn.SetReadDeadline(deadline); err != nil {
			return
		}

		if err := c.fill(); err != nil {
			var netErr net.Error
			switch {
			case errors.Is(err, io.EOF):
				log.Debug("connection closed by client")
			case errors.As(err, &netErr) && netErr.Timeout():
				log.Debug("connection timed out", "pending_bytes", c.in.Len())
			default:
				log.Debug("connection read error", "error", err)
			}
			return
		}
	}
}

// flush writes buffered replies.
func (s *Server) flush(c *Conn) error {
	if len(c.out) == 0 {
		return nil
	}
	if s.cfg.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return err
		}
	}
	_, err := c.netConn.Write(c.out)
	c.out = c.out[:0]
	return err
}
