package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix of server settings.
const DefaultEnvPrefix = "MESHKV_"

// Loader merges configuration sources into a koanf-tagged struct.
type Loader struct {
	envPrefix string
	filePath  string
	defaults  map[string]any
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the YAML file to read. The file must exist.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithDefaults sets a nested map loaded before any other source. Its key
// set also drives environment variable resolution.
func WithDefaults(m map[string]any) Option {
	return func(l *Loader) {
		l.defaults = m
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// source is one layer of the merge.
type source struct {
	name string
	load func(k *koanf.Koanf) error
}

// sources returns the layers in increasing priority.
func (l *Loader) sources() []source {
	var srcs []source
	if l.defaults != nil {
		srcs = append(srcs, source{"defaults", func(k *koanf.Koanf) error {
			return k.Load(mapProvider(l.defaults), nil)
		}})
	}
	if l.filePath != "" {
		srcs = append(srcs, source{"config file " + l.filePath, func(k *koanf.Koanf) error {
			return k.Load(file.Provider(l.filePath), yaml.Parser())
		}})
	}
	srcs = append(srcs, source{"env", l.loadEnv})
	return srcs
}

// Load reads every source from scratch and unmarshals the result into
// target. Fields of target that no source sets keep their current values,
// so Load may be called again to pick up a changed file.
func (l *Loader) Load(target any) error {
	k := koanf.New(".")
	for _, src := range l.sources() {
		if err := src.load(k); err != nil {
			return fmt.Errorf("load %s: %w", src.name, err)
		}
	}
	if err := k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// loadEnv maps variables such as MESHKV_SERVER_REDIS_READ_TIMEOUT onto the
// keys loaded so far, so underscores inside key names survive
// (server.redis.read_timeout). Unknown names fall back to one level per
// underscore.
func (l *Loader) loadEnv(k *koanf.Koanf) error {
	known := k.Keys()
	transform := func(s string) string {
		return resolveEnvKey(strings.TrimPrefix(s, l.envPrefix), known)
	}
	return k.Load(env.Provider(l.envPrefix, ".", transform), nil)
}

func resolveEnvKey(name string, known []string) string {
	name = strings.ToLower(name)
	for _, k := range known {
		if strings.ReplaceAll(k, ".", "_") == name {
			return k
		}
	}
	return strings.ReplaceAll(name, "_", ".")
}
