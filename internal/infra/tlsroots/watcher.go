package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/yndnr/meshkv/internal/infra/confloader"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watcher keeps a certificate in memory and reloads it when its files
// change. A failed reload keeps the previous certificate.
type Watcher struct {
	certFile string
	keyFile  string
	logger   *slog.Logger
	debounce time.Duration

	cert  atomic.Pointer[tls.Certificate]
	files *confloader.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher loads the key pair and returns a watcher serving it.
// Watching starts with Start or StartAsync.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := w.reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}

	files, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(w.logger),
		confloader.WithDebounce(w.debounce),
	)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: %w", err)
	}
	if err := files.Watch(certFile, keyFile); err != nil {
		_ = files.Stop()
		return nil, fmt.Errorf("tlsroots: %w", err)
	}
	files.OnChange(func(path string) {
		if err := w.reload(); err != nil {
			w.logger.Error("certificate reload failed, keeping previous",
				"error", err,
				"changed", path,
			)
		}
	})
	w.files = files

	return w, nil
}

// Start watches the certificate and key files until Stop is called.
func (w *Watcher) Start() {
	w.logger.Info("certificate watcher started",
		"cert_file", w.certFile,
		"key_file", w.keyFile,
	)
	w.files.Start()
}

// StartAsync runs Start in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	if err := w.files.Stop(); err != nil {
		w.logger.Warn("certificate watcher close failed", "error", err)
	}
}

// GetCertificate returns the current certificate.
// It has the signature of tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return w.cert.Load(), nil
}

func (w *Watcher) reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}
	w.cert.Store(&cert)

	w.logger.Info("certificate loaded", "cert_file", w.certFile)
	return nil
}
