package command

import (
	"github.com/yndnr/meshkv/internal/storage/memory"
	"github.com/yndnr/meshkv/pkg/resp"
)

// Get reads a key of the string keyspace.
type Get struct {
	Key string
}

func parseGet(arr resp.Array) (*Get, error) {
	if err := validateCommand(arr, []string{"get"}, 1); err != nil {
		return nil, err
	}
	key, err := bulkText(extractArgs(arr, 1)[0], "key")
	if err != nil {
		return nil, err
	}
	return &Get{Key: key}, nil
}

func (c *Get) Name() string { return "get" }

func (c *Get) Execute(b *memory.Backend) resp.Frame {
	if v, ok := b.Get(c.Key); ok {
		return v
	}
	return resp.NullBulkString()
}

// Set writes a key of the string keyspace.
type Set struct {
	Key   string
	Value resp.BulkString
}

func parseSet(arr resp.Array) (*Set, error) {
	if err := validateCommand(arr, []string{"set"}, 2); err != nil {
		return nil, err
	}
	args := extractArgs(arr, 1)
	key, err := bulkText(args[0], "key")
	if err != nil {
		return nil, err
	}
	value, err := bulkValue(args[1], "value")
	if err != nil {
		return nil, err
	}
	return &Set{Key: key, Value: value}, nil
}

func (c *Set) Name() string { return "set" }

func (c *Set) Execute(b *memory.Backend) resp.Frame {
	b.Set(c.Key, c.Value)
	return resp.OK()
}

func (*Get) command() {}
func (*Set) command() {}
