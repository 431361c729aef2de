package cmap

// Range calls fn for every key-value pair until fn returns false.
//
// Shards are locked one at a time, so the view is not a point-in-time
// snapshot across shards.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Keys returns all keys in no particular order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Count())
	m.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Snapshot copies the map into a plain Go map.
func (m *Map[V]) Snapshot() map[string]V {
	out := make(map[string]V, m.Count())
	m.Range(func(key string, value V) bool {
		out[key] = value
		return true
	})
	return out
}

// ShardCounts returns the item count of every shard, in shard order.
// The length of the result is the shard count.
func (m *Map[V]) ShardCounts() []int {
	counts := make([]int, len(m.shards))
	for i, s := range m.shards {
		s.mu.RLock()
		counts[i] = len(s.items)
		s.mu.RUnlock()
	}
	return counts
}
