// Package shutdown coordinates graceful termination of meshkv-server.
//
// Hooks registered with OnShutdown run in reverse order of registration once
// SIGINT or SIGTERM arrives or the context passed to Wait is cancelled. All
// hooks share one deadline.
package shutdown
