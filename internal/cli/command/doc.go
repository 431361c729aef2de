// Package command provides CLI command definitions for meshkv-cli.
//
//   - root.go: the application, global flags and interactive mode
//   - data.go: one subcommand per server command (get, sadd, ...)
//   - bench.go: a concurrent load generator
//
// Run without a subcommand, meshkv-cli opens an interactive session.
package command
