package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/meshkv/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
		return err
	}
	if cfg.Redis.ReadTimeout < 0 || cfg.Redis.WriteTimeout < 0 || cfg.Redis.IdleTimeout < 0 {
		return errors.New("server.redis timeouts must not be negative")
	}
	if cfg.Redis.RateLimit < 0 {
		return errors.New("server.redis.rate_limit must not be negative")
	}
	if cfg.Redis.RateLimit > 0 && cfg.Redis.RateBurst < 1 {
		return errors.New("server.redis.rate_burst must be at least 1 when rate_limit is set")
	}
	if cfg.Redis.MaxConns < 0 {
		return errors.New("server.redis.max_conns must not be negative")
	}
	if cfg.Redis.TLS.Enabled && (cfg.Redis.TLS.CertFile == "" || cfg.Redis.TLS.KeyFile == "") {
		return errors.New("server.redis.tls.cert_file and key_file are required when tls is enabled")
	}

	if cfg.Metrics.Enabled {
		if err := verifyAddr("server.metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
		if cfg.Metrics.Addr == cfg.Redis.Addr {
			return fmt.Errorf("server.metrics.addr conflicts with server.redis.addr (%s)", cfg.Redis.Addr)
		}
	}
	return nil
}

func verifyAddr(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", name)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if !isPowerOfTwo(cfg.ShardCount) {
		return fmt.Errorf("storage.shard_count must be a power of two, got %d", cfg.ShardCount)
	}
	if !isPowerOfTwo(cfg.InnerShardCount) {
		return fmt.Errorf("storage.inner_shard_count must be a power of two, got %d", cfg.InnerShardCount)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	}
	return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
