// Package command turns decoded RESP requests into typed commands and runs
// them against the backend.
//
// Parsing and execution are separate steps. Parse validates the request array
// (name, arity, element kinds, text encoding) without touching the backend and
// fails with a *domain.CommandError. Execute performs exactly one backend
// operation and cannot fail; its result is the reply frame.
package command

import (
	"strings"

	"github.com/yndnr/meshkv/internal/core/domain"
	"github.com/yndnr/meshkv/internal/storage/memory"
	"github.com/yndnr/meshkv/pkg/resp"
)

// Command is a validated request ready to run. Implementations are the
// command types of this package.
type Command interface {
	// Name returns the canonical lowercase command name.
	Name() string
	// Execute runs the command and returns the reply.
	Execute(b *memory.Backend) resp.Frame
	command()
}

type parser func(resp.Array) (Command, error)

func wrap[C Command](parse func(resp.Array) (C, error)) parser {
	return func(a resp.Array) (Command, error) {
		c, err := parse(a)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// parsers is the closed set of supported commands.
var parsers = map[string]parser{
	"ping":      wrap(parsePing),
	"echo":      wrap(parseEcho),
	"get":       wrap(parseGet),
	"set":       wrap(parseSet),
	"hget":      wrap(parseHGet),
	"hset":      wrap(parseHSet),
	"hgetall":   wrap(parseHGetAll),
	"hmget":     wrap(parseHMGet),
	"sadd":      wrap(parseSAdd),
	"sismember": wrap(parseSIsMember),
	"scard":     wrap(parseSCard),
	"smembers":  wrap(parseSMembers),
}

// Names returns the supported command names.
func Names() []string {
	names := make([]string, 0, len(parsers))
	for n := range parsers {
		names = append(names, n)
	}
	return names
}

// Parse builds a command from a decoded request frame. The frame must be a
// non-empty array whose first element is the command name.
func Parse(f resp.Frame) (Command, error) {
	arr, ok := f.(resp.Array)
	if !ok {
		return nil, domain.ErrInvalidArgument.WithMessage("request must be an array of bulk strings")
	}
	if arr.Null || arr.Len() == 0 {
		return nil, domain.ErrInvalidArgument.WithMessage("empty command")
	}
	bs, ok := arr.Elems[0].(resp.BulkString)
	if !ok || bs.Null {
		return nil, domain.ErrInvalidArgument.WithMessage("command name must be a bulk string")
	}

	name := strings.ToLower(string(bs.Data))
	p, ok := parsers[name]
	if !ok {
		return nil, domain.ErrUnknownCommand.WithMessage("unknown command '%s'", string(bs.Data))
	}
	return p(arr)
}

// Run parses and executes a request, rendering a parse failure as an error
// frame. It returns the command name ("" when unknown) for instrumentation.
func Run(b *memory.Backend, f resp.Frame) (string, resp.Frame, error) {
	cmd, err := Parse(f)
	if err != nil {
		return "", resp.NewError(domain.ClientMessage(err)), err
	}
	return cmd.Name(), cmd.Execute(b), nil
}
