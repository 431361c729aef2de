package redisserver

import (
	"context"
	"strings"
	"time"

	"github.com/yndnr/meshkv/internal/core/command"
	"github.com/yndnr/meshkv/internal/core/domain"
	"github.com/yndnr/meshkv/internal/telemetry/logger"
	"github.com/yndnr/meshkv/internal/telemetry/metric"
	"github.com/yndnr/meshkv/pkg/resp"
)

var knownCommands = func() map[string]bool {
	m := make(map[string]bool)
	for _, n := range command.Names() {
		m[n] = true
	}
	return m
}()

// handle runs one request and returns its reply. quit reports that the
// client asked to close the connection.
func (s *Server) handle(ctx context.Context, c *Conn, f resp.Frame) (reply resp.Frame, quit bool) {
	name := requestName(f)
	if name == "quit" {
		return resp.OK(), true
	}

	label := name
	if !knownCommands[label] {
		label = metric.UnknownCommand
	}

	if c.limiter != nil && !c.limiter.Allow() {
		s.observe(label, metric.StatusRateLimited, 0)
		return resp.NewError(domain.ClientMessage(domain.ErrRateLimited)), false
	}

	start := time.Now()
	_, reply, err := command.Run(s.backend, f)
	if err != nil {
		s.observe(label, metric.StatusError, time.Since(start))
		logger.L(ctx).Debug("command rejected",
			"command", label,
			"code", domain.GetErrorCode(err),
			"error", err,
		)
		return reply, false
	}

	s.observe(label, metric.StatusOK, time.Since(start))
	return reply, false
}

// requestName returns the lowercase command name of a request, or "".
func requestName(f resp.Frame) string {
	arr, ok := f.(resp.Array)
	if !ok || arr.Len() == 0 {
		return ""
	}
	bs, ok := arr.Elems[0].(resp.BulkString)
	if !ok || bs.Null {
		return ""
	}
	return strings.ToLower(string(bs.Data))
}

func (s *Server) observe(command, status string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveCommand(command, status, d)
	}
}
