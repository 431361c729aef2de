// Package main provides the entry point for meshkv-server.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/yndnr/meshkv/internal/infra/buildinfo"
	"github.com/yndnr/meshkv/internal/infra/confloader"
	"github.com/yndnr/meshkv/internal/infra/shutdown"
	"github.com/yndnr/meshkv/internal/infra/tlsroots"
	"github.com/yndnr/meshkv/internal/server/config"
	"github.com/yndnr/meshkv/internal/server/httpserver"
	"github.com/yndnr/meshkv/internal/server/redisserver"
	"github.com/yndnr/meshkv/internal/storage/memory"
	"github.com/yndnr/meshkv/internal/telemetry/logger"
	"github.com/yndnr/meshkv/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("meshkv-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting meshkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)

	backend := memory.New(
		memory.WithShardCount(cfg.Storage.ShardCount),
		memory.WithInnerShardCount(cfg.Storage.InnerShardCount),
	)

	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewCollector(backend))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownHandler := shutdown.NewHandler(shutdownTimeout)

	redisCfg := cfg.Server.Redis
	tlsCfg, certWatcher, err := loadTLS(redisCfg.TLS, log)
	if err != nil {
		return fmt.Errorf("load tls: %w", err)
	}
	if certWatcher != nil {
		certWatcher.StartAsync()
		shutdownHandler.OnShutdown(func(context.Context) error {
			certWatcher.Stop()
			return nil
		})
	}

	srv := redisserver.New(&redisserver.Config{
		Addr:         redisCfg.Addr,
		ReadTimeout:  redisCfg.ReadTimeout,
		WriteTimeout: redisCfg.WriteTimeout,
		IdleTimeout:  redisCfg.IdleTimeout,
		RateLimit:    redisCfg.RateLimit,
		RateBurst:    redisCfg.RateBurst,
		MaxConns:     redisCfg.MaxConns,
		TLS:          tlsCfg,
	}, backend,
		redisserver.WithLogger(log),
		redisserver.WithMetrics(metrics),
	)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down redis server")
		return srv.Shutdown(ctx)
	})

	if cfg.Server.Metrics.Enabled {
		adminServer := httpserver.New(cfg.Server.Metrics.Addr, httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics:   metrics,
			Stats:     backend,
			Ready:     srv.Running,
			Logger:    logger.AsSlog(log),
			AccessLog: cfg.Server.Metrics.AccessLog,
		}))
		go func() {
			log.Info("admin server listening", "addr", adminServer.Addr())
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("admin server error", "error", err)
				shutdownHandler.Trigger()
			}
		}()
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down admin server")
			return adminServer.Shutdown(ctx)
		})
	}

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, log)
		if err != nil {
			log.Warn("config watch disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithDefaults(config.DefaultMap())}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadTLS builds the RESP listener TLS config. It returns nil values when
// TLS is disabled.
func loadTLS(cfg config.TLSConfig, log logger.Logger) (*tls.Config, *tlsroots.Watcher, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	w, err := tlsroots.NewWatcher(cfg.CertFile, cfg.KeyFile, tlsroots.WithLogger(logger.AsSlog(log)))
	if err != nil {
		return nil, nil, err
	}

	var clientCAs *tlsroots.Pool
	if cfg.ClientCAFile != "" {
		clientCAs, err = tlsroots.LoadPool(cfg.ClientCAFile)
		if err != nil {
			return nil, nil, err
		}
	}
	return tlsroots.ServerConfig(w, clientCAs), w, nil
}

// watchConfig reloads the config file on change. Only log.level is applied
// at runtime; other settings need a restart.
func watchConfig(path string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.AsSlog(log)))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()

	return watcher, nil
}
