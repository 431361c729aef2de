package cmap

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{3, DefaultShardCount},
		{1, 1},
		{8, 8},
		{64, 64},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			if got := len(NewWithShards[int](tt.input).ShardCounts()); got != tt.want {
				t.Errorf("shard count = %d, want %d", got, tt.want)
			}
		})
	}

	if got := len(New[int]().ShardCounts()); got != DefaultShardCount {
		t.Errorf("New() shard count = %d, want %d", got, DefaultShardCount)
	}
}

// op is one step of a scripted map session.
type op struct {
	do    string // set or setnx
	key   string
	value int

	wantStored bool // for setnx
}

// ============================================================================
// Basic operations
// ============================================================================

func TestMap_Operations(t *testing.T) {
	tests := []struct {
		name      string
		ops       []op
		want      map[string]int
		wantCount int
	}{
		{
			name:      "empty",
			want:      map[string]int{},
			wantCount: 0,
		},
		{
			name:      "set two keys",
			ops:       []op{{do: "set", key: "user:1", value: 100}, {do: "set", key: "user:2", value: 200}},
			want:      map[string]int{"user:1": 100, "user:2": 200},
			wantCount: 2,
		},
		{
			name:      "overwrite",
			ops:       []op{{do: "set", key: "k", value: 1}, {do: "set", key: "k", value: 2}},
			want:      map[string]int{"k": 2},
			wantCount: 1,
		},
		{
			name: "set if absent keeps first",
			ops: []op{
				{do: "setnx", key: "k", value: 1, wantStored: true},
				{do: "setnx", key: "k", value: 2, wantStored: false},
			},
			want:      map[string]int{"k": 1},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewWithShards[int](4)
			for i, o := range tt.ops {
				switch o.do {
				case "set":
					m.Set(o.key, o.value)
				case "setnx":
					if got := m.SetIfAbsent(o.key, o.value); got != o.wantStored {
						t.Errorf("op %d: SetIfAbsent(%q) = %v, want %v", i, o.key, got, o.wantStored)
					}
				default:
					t.Fatalf("op %d: unknown %q", i, o.do)
				}
			}

			if got := m.Count(); got != tt.wantCount {
				t.Errorf("Count() = %d, want %d", got, tt.wantCount)
			}
			for k, want := range tt.want {
				got, ok := m.Get(k)
				if !ok || got != want {
					t.Errorf("Get(%q) = (%d, %v), want (%d, true)", k, got, ok, want)
				}
				if !m.Has(k) {
					t.Errorf("Has(%q) = false", k)
				}
			}
			if _, ok := m.Get("never-set"); ok {
				t.Error("Get(never-set) reported a value")
			}
		})
	}
}

func TestGetOrCompute(t *testing.T) {
	m := New[*Map[int]]()

	inner, existed := m.GetOrCompute("hash:1", New[int])
	if existed {
		t.Error("first GetOrCompute should report a new value")
	}
	inner.Set("field", 1)

	again, existed := m.GetOrCompute("hash:1", func() *Map[int] {
		t.Error("constructor must not run for an existing key")
		return New[int]()
	})
	if !existed || again != inner {
		t.Errorf("second GetOrCompute = (%p, %v), want (%p, true)", again, existed, inner)
	}
}

// ============================================================================
// Concurrency
// ============================================================================

func TestGetOrCompute_SingleConstruction(t *testing.T) {
	m := New[*Map[struct{}]]()
	var calls atomic.Int32
	var wg sync.WaitGroup

	const workers = 64
	results := make([]*Map[struct{}], workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = m.GetOrCompute("set:shared", func() *Map[struct{}] {
				calls.Add(1)
				return New[struct{}]()
			})
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("constructor ran %d times, want 1", calls.Load())
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d saw a different instance", i)
		}
	}
}

func TestSetIfAbsent_SingleWinner(t *testing.T) {
	m := New[int]()
	var stored atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.SetIfAbsent("member", i) {
				stored.Add(1)
			}
		}()
	}
	wg.Wait()

	if stored.Load() != 1 {
		t.Errorf("SetIfAbsent succeeded %d times, want 1", stored.Load())
	}
}

func TestConcurrentWriters(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup
	const writers, perWriter = 50, 500

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				key := strconv.Itoa(w*perWriter + j)
				m.Set(key, j)
				if v, ok := m.Get(key); !ok || v != j {
					t.Errorf("Get(%s) = (%d, %v) right after Set", key, v, ok)
					return
				}
			}
		}()
	}
	wg.Wait()

	if m.Count() != writers*perWriter {
		t.Errorf("Count() = %d, want %d", m.Count(), writers*perWriter)
	}
}

func BenchmarkSet(b *testing.B) {
	m := New[int]()
	keys := make([]string, 1024)
	for i := range keys {
		keys[i] = "key:" + strconv.Itoa(i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			m.Set(keys[i&1023], i)
			i++
		}
	})
}
