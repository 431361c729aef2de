package command

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/meshkv/internal/cli/connection"
	"github.com/yndnr/meshkv/pkg/resp"
)

// benchOps lists the operations bench can generate.
var benchOps = []string{"ping", "set", "get", "hset", "sadd", "sismember"}

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Run a concurrent load test against the server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "clients",
				Aliases: []string{"n"},
				Usage:   "Number of parallel connections",
				Value:   50,
			},
			&cli.IntFlag{
				Name:    "requests",
				Aliases: []string{"r"},
				Usage:   "Total number of requests",
				Value:   100000,
			},
			&cli.StringFlag{
				Name:  "op",
				Usage: "Operation: " + strings.Join(benchOps, ", "),
				Value: "set",
			},
			&cli.IntFlag{
				Name:    "data-size",
				Aliases: []string{"d"},
				Usage:   "Value size in bytes for set and hset",
				Value:   16,
			},
		},
		Action: benchAction,
	}
}

type benchOptions struct {
	Clients  int
	Requests int
	Op       string
	DataSize int
	// Prefix namespaces the keys of one run.
	Prefix string
}

func (o benchOptions) validate() error {
	if o.Clients < 1 {
		return fmt.Errorf("clients must be at least 1")
	}
	if o.Requests < 1 {
		return fmt.Errorf("requests must be at least 1")
	}
	if o.DataSize < 0 {
		return fmt.Errorf("data-size must not be negative")
	}
	for _, op := range benchOps {
		if o.Op == op {
			return nil
		}
	}
	return fmt.Errorf("unknown op %q (want one of %s)", o.Op, strings.Join(benchOps, ", "))
}

// args returns the request for the i-th operation.
func (o benchOptions) args(i int, value string) []string {
	n := strconv.Itoa(i)
	switch o.Op {
	case "set":
		return []string{"set", o.Prefix + ":key:" + n, value}
	case "get":
		return []string{"get", o.Prefix + ":key:" + n}
	case "hset":
		return []string{"hset", o.Prefix + ":hash", "field:" + n, value}
	case "sadd":
		return []string{"sadd", o.Prefix + ":set", "member:" + n}
	case "sismember":
		return []string{"sismember", o.Prefix + ":set", "member:" + n}
	default:
		return []string{"ping"}
	}
}

type benchResult struct {
	Requests  int
	Errors    int
	Elapsed   time.Duration
	Latencies []time.Duration
}

// Throughput returns completed requests per second.
func (r benchResult) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Requests) / r.Elapsed.Seconds()
}

// Percentile returns the latency below which p percent of requests fall.
func (r benchResult) Percentile(p float64) time.Duration {
	if len(r.Latencies) == 0 {
		return 0
	}
	idx := int(float64(len(r.Latencies))*p/100+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(r.Latencies) {
		idx = len(r.Latencies) - 1
	}
	return r.Latencies[idx]
}

type doFunc func(ctx context.Context, args ...string) (resp.Frame, error)

// runBench spreads opts.Requests requests over opts.Clients goroutines.
// Transport failures and error replies both count as errors.
func runBench(ctx context.Context, do doFunc, opts benchOptions) benchResult {
	value := strings.Repeat("x", opts.DataSize)

	var (
		next  atomic.Int64
		errs  atomic.Int64
		mu    sync.Mutex
		all   = make([]time.Duration, 0, opts.Requests)
		wg    sync.WaitGroup
		start = time.Now()
	)

	for w := 0; w < opts.Clients; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]time.Duration, 0, opts.Requests/opts.Clients+1)

			for ctx.Err() == nil {
				i := int(next.Add(1) - 1)
				if i >= opts.Requests {
					break
				}

				t0 := time.Now()
				reply, err := do(ctx, opts.args(i, value)...)
				local = append(local, time.Since(t0))
				if err != nil || connection.ReplyError(reply) != nil {
					errs.Add(1)
				}
			}

			mu.Lock()
			all = append(all, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return benchResult{
		Requests:  len(all),
		Errors:    int(errs.Load()),
		Elapsed:   time.Since(start),
		Latencies: all,
	}
}

func printBench(w io.Writer, opts benchOptions, r benchResult) {
	fmt.Fprintf(w, "====== %s ======\n", strings.ToUpper(opts.Op))
	fmt.Fprintf(w, "  %d requests completed in %.2f seconds\n", r.Requests, r.Elapsed.Seconds())
	fmt.Fprintf(w, "  %d parallel clients\n", opts.Clients)
	fmt.Fprintf(w, "  %d bytes payload\n", opts.DataSize)
	fmt.Fprintf(w, "  %d errors\n", r.Errors)
	fmt.Fprintf(w, "  %.2f requests per second\n", r.Throughput())
	fmt.Fprintf(w, "  latency p50=%s p99=%s max=%s\n", r.Percentile(50), r.Percentile(99), r.Percentile(100))
}

func benchAction(c *cli.Context) error {
	opts := benchOptions{
		Clients:  c.Int("clients"),
		Requests: c.Int("requests"),
		Op:       strings.ToLower(c.String("op")),
		DataSize: c.Int("data-size"),
		Prefix:   "bench:" + uuid.NewString(),
	}
	if err := opts.validate(); err != nil {
		return err
	}

	g, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	ctx := cmdContext(c)
	pool := connection.NewPool(ctx, g.Server, opts.Clients, g.Timeout, g.DialOptions()...)
	defer pool.Close(ctx)

	if opts.Op == "get" || opts.Op == "sismember" {
		seed := opts
		seed.Op = map[string]string{"get": "set", "sismember": "sadd"}[opts.Op]
		if r := runBench(ctx, pool.Do, seed); r.Errors > 0 {
			return fmt.Errorf("seeding %s keys: %d errors", opts.Op, r.Errors)
		}
	}

	printBench(c.App.Writer, opts, runBench(ctx, pool.Do, opts))
	return nil
}
