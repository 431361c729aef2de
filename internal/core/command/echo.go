package command

import (
	"github.com/yndnr/meshkv/internal/storage/memory"
	"github.com/yndnr/meshkv/pkg/resp"
)

// Echo replies with its argument.
type Echo struct {
	Msg string
}

func parseEcho(arr resp.Array) (*Echo, error) {
	if err := validateCommand(arr, []string{"echo"}, 1); err != nil {
		return nil, err
	}
	msg, err := bulkText(extractArgs(arr, 1)[0], "message")
	if err != nil {
		return nil, err
	}
	return &Echo{Msg: msg}, nil
}

func (c *Echo) Name() string { return "echo" }

func (c *Echo) Execute(*memory.Backend) resp.Frame {
	return resp.NewBulkString(c.Msg)
}

// Ping replies PONG, or echoes its optional argument.
type Ping struct {
	Msg    string
	HasMsg bool
}

func parsePing(arr resp.Array) (*Ping, error) {
	if err := validateMultiArgCommand(arr, []string{"ping"}, 1); err != nil {
		return nil, err
	}
	args := extractArgs(arr, 1)
	switch len(args) {
	case 0:
		return &Ping{}, nil
	case 1:
		msg, err := bulkText(args[0], "message")
		if err != nil {
			return nil, err
		}
		return &Ping{Msg: msg, HasMsg: true}, nil
	default:
		return nil, wrongArity("ping")
	}
}

func (c *Ping) Name() string { return "ping" }

func (c *Ping) Execute(*memory.Backend) resp.Frame {
	if c.HasMsg {
		return resp.NewBulkString(c.Msg)
	}
	return resp.SimpleString("PONG")
}

func (*Echo) command() {}
func (*Ping) command() {}
