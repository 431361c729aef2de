package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/meshkv/internal/cli/output"
	"github.com/yndnr/meshkv/internal/infra/confloader"
)

// EnvPrefix is the environment variable prefix of CLI settings.
const EnvPrefix = "MESHKV_CLI_"

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".meshkv", "cli.yaml")
}

// Load loads CLI configuration. An empty path means DefaultConfigPath,
// which may be absent; an explicit path must exist.
func Load(path string) (*CLIConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	opts := []confloader.Option{
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithDefaults(defaultMap()),
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		opts = append(opts, confloader.WithConfigFile(path))
	case explicit || !os.IsNotExist(err):
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg := Default()
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Verify checks a loaded configuration.
func Verify(cfg *CLIConfig) error {
	if cfg.Server == "" {
		return fmt.Errorf("server address is required")
	}
	if _, err := output.ParseFormat(cfg.Output); err != nil {
		return err
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if (cfg.TLS.CertFile == "") != (cfg.TLS.KeyFile == "") {
		return fmt.Errorf("tls.cert_file and tls.key_file must be set together")
	}
	return nil
}
