// Package memory provides the in-memory backend of meshkv.
//
// The backend holds three independent keyspaces (strings, hashes and sets),
// each a sharded concurrent map. The inner field map of a hash and the member
// set of a set are sharded maps as well, so concurrent writers touching
// different fields or members of the same key do not serialize on one lock.
package memory

import (
	"sort"

	"github.com/yndnr/meshkv/pkg/cmap"
	"github.com/yndnr/meshkv/pkg/resp"
)

// DefaultInnerShardCount is the shard count of per-key hash and set containers.
// Inner containers are usually small, so they get fewer shards than keyspaces.
const DefaultInnerShardCount = 8

// Backend is the shared store. All methods are safe for concurrent use.
type Backend struct {
	strings *cmap.Map[resp.Frame]
	hashes  *cmap.Map[*cmap.Map[resp.Frame]]
	sets    *cmap.Map[*cmap.Map[struct{}]]

	innerShards int
}

// Option configures the Backend.
type Option func(*Backend)

// WithShardCount sets the shard count of each top-level keyspace.
func WithShardCount(n int) Option {
	return func(b *Backend) {
		b.strings = cmap.NewWithShards[resp.Frame](n)
		b.hashes = cmap.NewWithShards[*cmap.Map[resp.Frame]](n)
		b.sets = cmap.NewWithShards[*cmap.Map[struct{}]](n)
	}
}

// WithInnerShardCount sets the shard count of per-key hash and set containers.
func WithInnerShardCount(n int) Option {
	return func(b *Backend) {
		b.innerShards = n
	}
}

// New creates an empty backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		strings:     cmap.New[resp.Frame](),
		hashes:      cmap.New[*cmap.Map[resp.Frame]](),
		sets:        cmap.New[*cmap.Map[struct{}]](),
		innerShards: DefaultInnerShardCount,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Get returns the value stored in the string keyspace.
func (b *Backend) Get(key string) (resp.Frame, bool) {
	v, ok := b.strings.Get(key)
	if !ok {
		return nil, false
	}
	return resp.Clone(v), true
}

// Set stores value in the string keyspace.
func (b *Backend) Set(key string, value resp.Frame) {
	b.strings.Set(key, resp.Clone(value))
}

// HGet returns one field of a hash.
func (b *Backend) HGet(key, field string) (resp.Frame, bool) {
	h, ok := b.hashes.Get(key)
	if !ok {
		return nil, false
	}
	v, ok := h.Get(field)
	if !ok {
		return nil, false
	}
	return resp.Clone(v), true
}

// HSet stores one field of a hash, creating the hash on first use.
func (b *Backend) HSet(key, field string, value resp.Frame) {
	h, _ := b.hashes.GetOrCompute(key, b.newHash)
	h.Set(field, resp.Clone(value))
}

// HGetAll returns a copy of every field of a hash. The boolean is false
// when the key has never been written.
func (b *Backend) HGetAll(key string) (map[string]resp.Frame, bool) {
	h, ok := b.hashes.Get(key)
	if !ok {
		return nil, false
	}
	out := h.Snapshot()
	for f, v := range out {
		out[f] = resp.Clone(v)
	}
	return out, true
}

// HMGet returns the values of the requested fields that exist, in request
// order. Missing fields are skipped, so the result may be shorter than fields.
func (b *Backend) HMGet(key string, fields []string) []resp.Frame {
	h, ok := b.hashes.Get(key)
	if !ok {
		return nil
	}

	out := make([]resp.Frame, 0, len(fields))
	for _, f := range fields {
		if v, ok := h.Get(f); ok {
			out = append(out, resp.Clone(v))
		}
	}
	return out
}

// SAdd inserts members into a set, creating the set on first use, and
// returns how many of them were not present before.
func (b *Backend) SAdd(key string, members []string) int {
	s, _ := b.sets.GetOrCompute(key, b.newSet)

	added := 0
	for _, m := range members {
		if s.SetIfAbsent(m, struct{}{}) {
			added++
		}
	}
	return added
}

// SIsMember reports whether member belongs to the set at key.
// A missing key is an empty set.
func (b *Backend) SIsMember(key, member string) bool {
	s, ok := b.sets.Get(key)
	if !ok {
		return false
	}
	return s.Has(member)
}

// SCard returns the number of members of the set at key.
func (b *Backend) SCard(key string) int {
	s, ok := b.sets.Get(key)
	if !ok {
		return 0
	}
	return s.Count()
}

// SMembers returns the members of a set in sorted order.
func (b *Backend) SMembers(key string) []string {
	s, ok := b.sets.Get(key)
	if !ok {
		return nil
	}
	members := s.Keys()
	sort.Strings(members)
	return members
}

// Stats reports the number of keys in each keyspace and how they spread
// over the keyspace shards.
type Stats struct {
	Strings int
	Hashes  int
	Sets    int

	// Per-shard key counts, in shard order.
	StringShards []int
	HashShards   []int
	SetShards    []int
}

// Stats returns the current key counts. Shards are read one at a time, so
// the result is not a point-in-time view under concurrent writes.
func (b *Backend) Stats() Stats {
	s := Stats{
		StringShards: b.strings.ShardCounts(),
		HashShards:   b.hashes.ShardCounts(),
		SetShards:    b.sets.ShardCounts(),
	}
	s.Strings = sum(s.StringShards)
	s.Hashes = sum(s.HashShards)
	s.Sets = sum(s.SetShards)
	return s
}

func sum(counts []int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func (b *Backend) newHash() *cmap.Map[resp.Frame] {
	return cmap.NewWithShards[resp.Frame](b.innerShards)
}

func (b *Backend) newSet() *cmap.Map[struct{}] {
	return cmap.NewWithShards[struct{}](b.innerShards)
}
