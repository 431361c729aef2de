package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/meshkv/internal/telemetry/metric"
)

// ReadyFunc reports whether the server is ready for traffic.
type ReadyFunc func() bool

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics is exposed at /metrics.
	Metrics *metric.Registry

	// Stats backs /stats.
	Stats metric.StatsSource

	// Ready backs /ready. Nil means always ready.
	Ready ReadyFunc

	// Logger for request and panic logging.
	Logger *slog.Logger

	// AccessLog enables one log line per request.
	AccessLog bool
}

// NewRouter creates the admin router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /ready", readyHandler(cfg.Ready))
	if cfg.Stats != nil {
		mux.HandleFunc("GET /stats", statsHandler(cfg.Stats))
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	middlewares := []Middleware{RequestID(), Recover(logger)}
	if cfg.AccessLog {
		middlewares = append(middlewares, AccessLog(logger))
	}
	return Chain(mux, middlewares...)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func readyHandler(ready ReadyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Strings int `json:"strings"`
	Hashes  int `json:"hashes"`
	Sets    int `json:"sets"`

	// Shards holds the per-shard key counts of each keyspace.
	Shards ShardOccupancy `json:"shards"`
}

// ShardOccupancy lists key counts per shard, in shard order.
type ShardOccupancy struct {
	Strings []int `json:"strings"`
	Hashes  []int `json:"hashes"`
	Sets    []int `json:"sets"`
}

func statsHandler(src metric.StatsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := src.Stats()
		writeJSON(w, http.StatusOK, StatsResponse{
			Strings: s.Strings,
			Hashes:  s.Hashes,
			Sets:    s.Sets,
			Shards: ShardOccupancy{
				Strings: s.StringShards,
				Hashes:  s.HashShards,
				Sets:    s.SetShards,
			},
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
