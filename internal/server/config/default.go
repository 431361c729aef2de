package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultRateBurst    = 100

	DefaultMetricsAddr = "127.0.0.1:9121"

	DefaultShardCount      = 32
	DefaultInnerShardCount = 8

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
				RateBurst:    DefaultRateBurst,
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Addr:    DefaultMetricsAddr,
			},
		},
		Storage: StorageSection{
			ShardCount:      DefaultShardCount,
			InnerShardCount: DefaultInnerShardCount,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultMap returns the defaults as a nested map keyed like the YAML file.
// Loading it first lets the loader resolve environment variable names
// against known keys.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"server": map[string]any{
			"redis": map[string]any{
				"addr":          d.Server.Redis.Addr,
				"read_timeout":  d.Server.Redis.ReadTimeout,
				"write_timeout": d.Server.Redis.WriteTimeout,
				"idle_timeout":  d.Server.Redis.IdleTimeout,
				"rate_limit":    d.Server.Redis.RateLimit,
				"rate_burst":    d.Server.Redis.RateBurst,
				"max_conns":     d.Server.Redis.MaxConns,
				"tls": map[string]any{
					"enabled":        d.Server.Redis.TLS.Enabled,
					"cert_file":      d.Server.Redis.TLS.CertFile,
					"key_file":       d.Server.Redis.TLS.KeyFile,
					"client_ca_file": d.Server.Redis.TLS.ClientCAFile,
				},
			},
			"metrics": map[string]any{
				"enabled":    d.Server.Metrics.Enabled,
				"addr":       d.Server.Metrics.Addr,
				"access_log": d.Server.Metrics.AccessLog,
			},
		},
		"storage": map[string]any{
			"shard_count":       d.Storage.ShardCount,
			"inner_shard_count": d.Storage.InnerShardCount,
		},
		"log": map[string]any{
			"level":  d.Log.Level,
			"format": d.Log.Format,
		},
	}
}
