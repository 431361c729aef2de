package command

import (
	"github.com/yndnr/meshkv/internal/storage/memory"
	"github.com/yndnr/meshkv/pkg/resp"
)

// SAdd inserts members into a set and replies with the number of members
// that were not already present.
type SAdd struct {
	Key     string
	Members []string
}

func parseSAdd(arr resp.Array) (*SAdd, error) {
	if err := validateMultiArgCommand(arr, []string{"sadd"}, 3); err != nil {
		return nil, err
	}
	args := extractArgs(arr, 1)
	key, err := bulkText(args[0], "key")
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		m, err := bulkText(a, "member")
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return &SAdd{Key: key, Members: members}, nil
}

func (c *SAdd) Name() string { return "sadd" }

func (c *SAdd) Execute(b *memory.Backend) resp.Frame {
	return resp.Integer(b.SAdd(c.Key, c.Members))
}

// SIsMember replies 1 if member belongs to the set, 0 otherwise.
type SIsMember struct {
	Key    string
	Member string
}

func parseSIsMember(arr resp.Array) (*SIsMember, error) {
	if err := validateCommand(arr, []string{"sismember"}, 2); err != nil {
		return nil, err
	}
	args := extractArgs(arr, 1)
	key, err := bulkText(args[0], "key")
	if err != nil {
		return nil, err
	}
	member, err := bulkText(args[1], "member")
	if err != nil {
		return nil, err
	}
	return &SIsMember{Key: key, Member: member}, nil
}

func (c *SIsMember) Name() string { return "sismember" }

func (c *SIsMember) Execute(b *memory.Backend) resp.Frame {
	if b.SIsMember(c.Key, c.Member) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

// SCard replies with the number of members of a set.
type SCard struct {
	Key string
}

func parseSCard(arr resp.Array) (*SCard, error) {
	if err := validateCommand(arr, []string{"scard"}, 1); err != nil {
		return nil, err
	}
	key, err := bulkText(extractArgs(arr, 1)[0], "key")
	if err != nil {
		return nil, err
	}
	return &SCard{Key: key}, nil
}

func (c *SCard) Name() string { return "scard" }

func (c *SCard) Execute(b *memory.Backend) resp.Frame {
	return resp.Integer(b.SCard(c.Key))
}

// SMembers replies with the members of a set, sorted.
type SMembers struct {
	Key string
}

func parseSMembers(arr resp.Array) (*SMembers, error) {
	if err := validateCommand(arr, []string{"smembers"}, 1); err != nil {
		return nil, err
	}
	key, err := bulkText(extractArgs(arr, 1)[0], "key")
	if err != nil {
		return nil, err
	}
	return &SMembers{Key: key}, nil
}

func (c *SMembers) Name() string { return "smembers" }

func (c *SMembers) Execute(b *memory.Backend) resp.Frame {
	members := b.SMembers(c.Key)
	out := make([]resp.Frame, len(members))
	for i, m := range members {
		out[i] = resp.NewBulkString(m)
	}
	return resp.NewArray(out...)
}

func (*SAdd) command()      {}
func (*SIsMember) command() {}
func (*SCard) command()     {}
func (*SMembers) command()  {}
