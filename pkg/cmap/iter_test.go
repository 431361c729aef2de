package cmap

import (
	"sort"
	"strconv"
	"testing"
)

func TestRange(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	collected := make(map[string]int)
	m.Range(func(key string, value int) bool {
		collected[key] = value
		return true
	})

	for k, v := range map[string]int{"a": 1, "b": 2, "c": 3} {
		if collected[k] != v {
			t.Errorf("collected[%s] = %d, want %d", k, collected[k], v)
		}
	}
}

func TestRangeEarlyStop(t *testing.T) {
	m := New[int]()
	for i := 0; i < 100; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	count := 0
	m.Range(func(string, int) bool {
		count++
		return count < 10
	})

	if count != 10 {
		t.Errorf("Range stopped at %d, want 10", count)
	}
}

func TestKeys(t *testing.T) {
	m := New[int]()
	m.Set("x", 1)
	m.Set("y", 2)
	m.Set("z", 3)

	keys := m.Keys()
	sort.Strings(keys)
	want := []string{"x", "y", "z"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() length = %d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)

	snap := m.Snapshot()
	snap["b"] = 2

	if m.Has("b") {
		t.Error("mutating a snapshot must not affect the map")
	}
	if snap["a"] != 1 {
		t.Errorf("snap[a] = %d, want 1", snap["a"])
	}
}

func TestShardCounts(t *testing.T) {
	m := NewWithShards[int](4)
	for i := 0; i < 100; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	counts := m.ShardCounts()
	if len(counts) != 4 {
		t.Errorf("ShardCounts() length = %d, want 4", len(counts))
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total != 100 || total != m.Count() {
		t.Errorf("sum of shard counts = %d, want 100", total)
	}
}
