package config

import (
	"time"

	"github.com/yndnr/meshkv/internal/cli/repl"
)

// CLIConfig is the configuration for meshkv-cli.
type CLIConfig struct {
	// Server is the host:port of the meshkv server.
	Server string `koanf:"server"`

	// Output is the reply format: text or json.
	Output string `koanf:"output"`

	// Timeout bounds dialing and each request.
	Timeout time.Duration `koanf:"timeout"`

	// HistoryFile stores interactive history. Empty disables persistence.
	HistoryFile string `koanf:"history_file"`

	TLS TLSConfig `koanf:"tls"`
}

// TLSConfig configures TLS towards the server.
type TLSConfig struct {
	Enabled bool `koanf:"enabled"`

	// CAFile verifies the server certificate. Empty means the system roots.
	CAFile string `koanf:"ca_file"`

	// CertFile and KeyFile are presented to servers that require a
	// client certificate.
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`

	ServerName string `koanf:"server_name"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:      "127.0.0.1:6379",
		Output:      "text",
		Timeout:     5 * time.Second,
		HistoryFile: repl.DefaultHistoryFile(),
	}
}

func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"server":       d.Server,
		"output":       d.Output,
		"timeout":      d.Timeout,
		"history_file": d.HistoryFile,
		"tls": map[string]any{
			"enabled":     d.TLS.Enabled,
			"ca_file":     d.TLS.CAFile,
			"cert_file":   d.TLS.CertFile,
			"key_file":    d.TLS.KeyFile,
			"server_name": d.TLS.ServerName,
		},
	}
}
