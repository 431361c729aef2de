package command

import (
	"sort"

	"github.com/yndnr/meshkv/internal/storage/memory"
	"github.com/yndnr/meshkv/pkg/resp"
)

// HGet reads one field of a hash.
type HGet struct {
	Key   string
	Field string
}

func parseHGet(arr resp.Array) (*HGet, error) {
	if err := validateCommand(arr, []string{"hget"}, 2); err != nil {
		return nil, err
	}
	args := extractArgs(arr, 1)
	key, err := bulkText(args[0], "key")
	if err != nil {
		return nil, err
	}
	field, err := bulkText(args[1], "field")
	if err != nil {
		return nil, err
	}
	return &HGet{Key: key, Field: field}, nil
}

func (c *HGet) Name() string { return "hget" }

func (c *HGet) Execute(b *memory.Backend) resp.Frame {
	if v, ok := b.HGet(c.Key, c.Field); ok {
		return v
	}
	return resp.NullBulkString()
}

// HSet writes one field of a hash.
type HSet struct {
	Key   string
	Field string
	Value resp.BulkString
}

func parseHSet(arr resp.Array) (*HSet, error) {
	if err := validateCommand(arr, []string{"hset"}, 3); err != nil {
		return nil, err
	}
	args := extractArgs(arr, 1)
	key, err := bulkText(args[0], "key")
	if err != nil {
		return nil, err
	}
	field, err := bulkText(args[1], "field")
	if err != nil {
		return nil, err
	}
	value, err := bulkValue(args[2], "value")
	if err != nil {
		return nil, err
	}
	return &HSet{Key: key, Field: field, Value: value}, nil
}

func (c *HSet) Name() string { return "hset" }

func (c *HSet) Execute(b *memory.Backend) resp.Frame {
	b.HSet(c.Key, c.Field, c.Value)
	return resp.OK()
}

// HGetAll returns every field of a hash as a map sorted by field name.
type HGetAll struct {
	Key string
}

func parseHGetAll(arr resp.Array) (*HGetAll, error) {
	if err := validateCommand(arr, []string{"hgetall"}, 1); err != nil {
		return nil, err
	}
	key, err := bulkText(extractArgs(arr, 1)[0], "key")
	if err != nil {
		return nil, err
	}
	return &HGetAll{Key: key}, nil
}

func (c *HGetAll) Name() string { return "hgetall" }

func (c *HGetAll) Execute(b *memory.Backend) resp.Frame {
	fields, _ := b.HGetAll(c.Key)

	out := make(resp.Map, 0, len(fields))
	for f, v := range fields {
		out = append(out, resp.MapEntry{Key: f, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// HMGet returns the values of several fields of a hash.
//
// Fields that do not exist are left out of the reply rather than replaced by
// nulls, so the reply can be shorter than the field list.
type HMGet struct {
	Key    string
	Fields []string
}

func parseHMGet(arr resp.Array) (*HMGet, error) {
	if err := validateMultiArgCommand(arr, []string{"hmget"}, 3); err != nil {
		return nil, err
	}
	args := extractArgs(arr, 1)
	key, err := bulkText(args[0], "key")
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		f, err := bulkText(a, "field")
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return &HMGet{Key: key, Fields: fields}, nil
}

func (c *HMGet) Name() string { return "hmget" }

func (c *HMGet) Execute(b *memory.Backend) resp.Frame {
	return resp.NewArray(b.HMGet(c.Key, c.Fields)...)
}

func (*HGet) command()    {}
func (*HSet) command()    {}
func (*HGetAll) command() {}
func (*HMGet) command()   {}
