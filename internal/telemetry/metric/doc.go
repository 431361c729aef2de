// Package metric provides Prometheus metrics for meshkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, command and connection metrics, HTTP handler
//   - collector.go: key counts read from the backend at scrape time
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
