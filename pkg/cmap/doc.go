// Package cmap provides the lock-striped concurrent map that backs every
// keyspace in meshkv.
//
// Keys are strings and are routed to one of a power-of-two number of shards
// by their murmur3 hash. Each shard owns a plain Go map guarded by its own
// sync.RWMutex, so operations on keys that land in different shards never
// contend.
//
// Usage:
//
//	m := cmap.New[resp.Frame]()
//	m.Set("key", resp.NewBulkString("v"))
//	inner, _ := hashes.GetOrCompute("user:1", cmap.New[resp.Frame])
//
// Thread Safety:
//
// All operations are safe for concurrent use. Get, Has, Count and iteration
// take shard read locks; mutations take the shard write lock. Callbacks passed
// to GetOrCompute and Range run while a shard lock is held and must not touch
// the same map.
package cmap
