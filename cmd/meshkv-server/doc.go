// Package main provides the entry point for meshkv-server.
//
// The server speaks RESP over TCP and keeps strings, hashes and sets in a
// sharded in-memory backend. The RESP listener can be wrapped in TLS, with
// the certificate reloaded from disk when it changes. An optional admin HTTP
// listener serves /health, /ready, /stats and Prometheus /metrics.
//
// Usage:
//
//	meshkv-server [flags]
//	meshkv-server --config /path/to/config.yaml
//
// Configuration is layered: built-in defaults, the YAML file, then
// MESHKV_* environment variables. When a config file is given it is
// watched, and a change to log.level takes effect without a restart.
package main
