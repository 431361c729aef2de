package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/meshkv/internal/cli/connection"
	"github.com/yndnr/meshkv/internal/server/redisserver"
	"github.com/yndnr/meshkv/internal/storage/memory"
	"github.com/yndnr/meshkv/pkg/resp"
)

// KeyCounts defines the keyspace sizes for benchmarking.
var KeyCounts = []int{5000, 10000, 50000, 100000, 500000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 5000, 10000}

// newKey generates a unique key.
func newKey(prefix string) string {
	return prefix + ":" + strings.ToLower(ulid.Make().String())
}

// prefillStrings stores count string keys and returns them.
func prefillStrings(b *memory.Backend, count int) []string {
	keys := make([]string, count)
	for i := range keys {
		keys[i] = newKey("str")
		b.Set(keys[i], resp.NewBulkString(fmt.Sprintf("value-%d", i)))
	}
	return keys
}

// prefillSet adds count members to one set and returns them.
func prefillSet(b *memory.Backend, key string, count int) []string {
	members := make([]string, count)
	for i := range members {
		members[i] = fmt.Sprintf("member-%d", i)
	}
	b.SAdd(key, members)
	return members
}

// prefillHash writes count fields into one hash and returns the field names.
func prefillHash(b *memory.Backend, key string, count int) []string {
	fields := make([]string, count)
	for i := range fields {
		fields[i] = fmt.Sprintf("field-%d", i)
		b.HSet(key, fields[i], resp.NewBulkString("v"))
	}
	return fields
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various keyspace sizes.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}

// startServer runs a RESP server on a loopback port until the benchmark ends.
func startServer(b *testing.B, backend *memory.Backend) string {
	b.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := redisserver.New(cfg, backend)
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("Start failed: %v", err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// dial opens a client connection that is closed when the benchmark ends.
func dial(b *testing.B, addr string) *connection.Client {
	b.Helper()

	c, err := connection.Dial(context.Background(), addr, connection.DefaultTimeout)
	if err != nil {
		b.Fatalf("Dial failed: %v", err)
	}
	b.Cleanup(func() { _ = c.Close() })
	return c
}
