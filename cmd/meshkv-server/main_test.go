package main

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/meshkv/internal/infra/tlsroots/tlstest"
	"github.com/yndnr/meshkv/internal/server/config"
	"github.com/yndnr/meshkv/internal/telemetry/logger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meshkv.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("Addr = %q", cfg.Server.Redis.Addr)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  redis:
    addr: 0.0.0.0:7000
    read_timeout: 3s
  metrics:
    access_log: true
storage:
  shard_count: 64
`)
	t.Setenv("MESHKV_SERVER_REDIS_RATE_BURST", "7")
	t.Setenv("MESHKV_SERVER_REDIS_RATE_LIMIT", "50")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "0.0.0.0:7000" {
		t.Errorf("Addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.Redis.ReadTimeout)
	}
	if cfg.Server.Redis.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want default", cfg.Server.Redis.WriteTimeout)
	}
	if cfg.Storage.ShardCount != 64 {
		t.Errorf("ShardCount = %d", cfg.Storage.ShardCount)
	}
	if !cfg.Server.Metrics.AccessLog {
		t.Error("AccessLog = false, want true")
	}
	if cfg.Server.Redis.RateBurst != 7 || cfg.Server.Redis.RateLimit != 50 {
		t.Errorf("rate = %v/%d", cfg.Server.Redis.RateLimit, cfg.Server.Redis.RateBurst)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "storage:\n  shard_count: 3\n")

	_, err := loadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadTLS(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := tlstest.WriteCert(t, dir, "server")
	log := logger.Default()

	tests := []struct {
		name       string
		cfg        config.TLSConfig
		wantConfig bool
		wantMTLS   bool
		wantErr    bool
	}{
		{"disabled", config.TLSConfig{CertFile: certFile}, false, false, false},
		{"server cert", config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile}, true, false, false},
		{"client ca", config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile, ClientCAFile: certFile}, true, true, false},
		{"missing key", config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: filepath.Join(dir, "nope.key")}, false, false, true},
		{"bad client ca", config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile, ClientCAFile: keyFile}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, w, err := loadTLS(tt.cfg, log)
			if w != nil {
				defer w.Stop()
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadTLS() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (cfg != nil) != tt.wantConfig {
				t.Fatalf("config = %v, want set = %v", cfg, tt.wantConfig)
			}
			if cfg != nil && (cfg.ClientAuth == tls.RequireAndVerifyClientCert) != tt.wantMTLS {
				t.Errorf("ClientAuth = %v", cfg.ClientAuth)
			}
		})
	}
}
