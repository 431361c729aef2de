// Package logger provides structured logging for meshkv.
//
// The package wraps log/slog:
//
//   - logger.go: handler construction, the shared dynamic level and the
//     handler that stamps records with the connection ID
//   - context.go: context propagation of the logger and connection IDs
//   - truncate.go: clipping of large payload attributes
package logger
