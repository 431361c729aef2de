package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/yndnr/meshkv/internal/cli/connection"
	"github.com/yndnr/meshkv/internal/storage/memory"
)

// BenchmarkServerRoundTrip benchmarks one request per round trip over loopback.
func BenchmarkServerRoundTrip(b *testing.B) {
	addr := startServer(b, memory.New())
	c := dial(b, addr)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := c.Do(ctx, "SADD", "s", fmt.Sprintf("m-%d", i)); err != nil {
			b.Fatalf("Do failed: %v", err)
		}
	}
}

// BenchmarkServerPipeline benchmarks pipelined batches over one connection.
func BenchmarkServerPipeline(b *testing.B) {
	for _, depth := range []int{10, 100} {
		b.Run(fmt.Sprintf("depth_%d", depth), func(b *testing.B) {
			addr := startServer(b, memory.New())
			c := dial(b, addr)
			ctx := context.Background()

			batch := make([][]string, depth)
			for i := range batch {
				batch[i] = []string{"SET", fmt.Sprintf("k-%d", i), "v"}
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := c.Pipeline(ctx, batch); err != nil {
					b.Fatalf("Pipeline failed: %v", err)
				}
			}
			b.ReportMetric(float64(depth), "cmds/op")
		})
	}
}

// BenchmarkServerParallelClients benchmarks many connections sharing one set.
func BenchmarkServerParallelClients(b *testing.B) {
	addr := startServer(b, memory.New())
	pool := connection.NewPool(context.Background(), addr, 16, connection.DefaultTimeout)
	b.Cleanup(func() { pool.Close(context.Background()) })

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		prefix := newKey("c")
		i := 0
		for pb.Next() {
			if _, err := pool.Do(ctx, "SADD", "shared", fmt.Sprintf("%s-%d", prefix, i)); err != nil {
				b.Errorf("Do failed: %v", err)
				return
			}
			i++
		}
	})
}
