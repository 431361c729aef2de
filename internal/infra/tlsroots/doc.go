// Package tlsroots provides TLS setup for the RESP listener and the CLI.
//
//   - roots.go: trusted CA pools and client configs
//   - watcher.go: server certificate hot-reload on top of confloader.Watcher
//   - server.go: server configs, optionally requiring client certificates
package tlsroots
