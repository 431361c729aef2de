// Package connection provides the meshkv-cli side of the wire.
//
//   - client.go: a single RESP connection (requests written with
//     tidwall/resp, replies decoded with pkg/resp so RESP3 maps and sets
//     are understood)
//   - manager.go: the current connection of an interactive session, with
//     lazy reconnect
//   - pool.go: a bounded client pool for concurrent load (bench)
package connection
