package config

import "time"

// ServerConfig is the root configuration for meshkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis   RedisConfig   `koanf:"redis"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// RedisConfig configures the RESP protocol server.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadTimeout bounds a single read once a request has started arriving.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	// IdleTimeout closes connections with no traffic. Zero disables it.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// RateLimit is the per-connection command rate in commands/s. Zero disables it.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// MaxConns caps concurrent client connections. Zero means unlimited.
	MaxConns int `koanf:"max_conns"`

	TLS TLSConfig `koanf:"tls"`
}

// TLSConfig configures TLS on the RESP listener. The certificate files are
// watched and reloaded on change.
type TLSConfig struct {
	Enabled  bool   `koanf:"enabled"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`

	// ClientCAFile, when set, requires clients to present a certificate
	// signed by one of its CAs.
	ClientCAFile string `koanf:"client_ca_file"`
}

// MetricsConfig configures the admin HTTP endpoint serving /metrics,
// /health, /ready and /stats.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`

	// AccessLog logs every admin request at debug level.
	AccessLog bool `koanf:"access_log"`
}

// StorageSection configures the in-memory backend.
type StorageSection struct {
	// ShardCount is the number of lock stripes per keyspace. Must be a power of two.
	ShardCount int `koanf:"shard_count"`
	// InnerShardCount is the number of lock stripes per hash or set.
	InnerShardCount int `koanf:"inner_shard_count"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
