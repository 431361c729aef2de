// Package buildinfo provides build information for meshkv.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/meshkv/internal/infra/buildinfo.Version=v0.1.0"
//
// When they are not injected, Get falls back to the VCS data the Go
// toolchain embeds in the binary.
package buildinfo
