package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server != "127.0.0.1:6379" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.Output != "text" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) = %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if filepath.Base(path) != "cli.yaml" || filepath.Base(filepath.Dir(path)) != ".meshkv" {
		t.Errorf("DefaultConfigPath() = %q", path)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "server: db.internal:6380\noutput: json\ntimeout: 250ms\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server != "db.internal:6380" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.HistoryFile != Default().HistoryFile {
		t.Errorf("HistoryFile = %q, want default", cfg.HistoryFile)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server: from-file:1\nhistory_file: /tmp/h\n")
	t.Setenv("MESHKV_CLI_SERVER", "from-env:2")
	t.Setenv("MESHKV_CLI_HISTORY_FILE", "/tmp/env-history")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server != "from-env:2" {
		t.Errorf("Server = %q, want from-env:2", cfg.Server)
	}
	if cfg.HistoryFile != "/tmp/env-history" {
		t.Errorf("HistoryFile = %q, want /tmp/env-history", cfg.HistoryFile)
	}
}

func TestLoad_TLS(t *testing.T) {
	path := writeFile(t, "tls:\n  enabled: true\n  ca_file: /etc/meshkv/ca.crt\n")
	t.Setenv("MESHKV_CLI_TLS_SERVER_NAME", "kv.internal")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.TLS.Enabled || cfg.TLS.CAFile != "/etc/meshkv/ca.crt" {
		t.Errorf("TLS = %+v", cfg.TLS)
	}
	if cfg.TLS.ServerName != "kv.internal" {
		t.Errorf("ServerName = %q, want kv.internal", cfg.TLS.ServerName)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail when an explicit file is missing")
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server != Default().Server {
		t.Errorf("Server = %q", cfg.Server)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*CLIConfig)
		wantErr bool
	}{
		{"valid", func(c *CLIConfig) {}, false},
		{"empty server", func(c *CLIConfig) { c.Server = "" }, true},
		{"bad output", func(c *CLIConfig) { c.Output = "yaml" }, true},
		{"negative timeout", func(c *CLIConfig) { c.Timeout = -time.Second }, true},
		{"zero timeout", func(c *CLIConfig) { c.Timeout = 0 }, false},
		{"tls cert without key", func(c *CLIConfig) { c.TLS.CertFile = "c.crt" }, true},
		{"tls key pair", func(c *CLIConfig) { c.TLS.CertFile, c.TLS.KeyFile = "c.crt", "c.key" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := Verify(cfg); (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
