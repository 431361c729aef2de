package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/meshkv/internal/infra/tlsroots"
	"github.com/yndnr/meshkv/internal/infra/tlsroots/tlstest"
	"github.com/yndnr/meshkv/internal/server/redisserver"
	"github.com/yndnr/meshkv/internal/storage/memory"
)

// startServer runs a meshkv server on a loopback port for the test.
func startServer(t *testing.T) string {
	t.Helper()
	return serve(t, redisserver.DefaultConfig())
}

// startTLSServer runs a TLS meshkv server and returns its address and the
// certificate file clients must trust.
func startTLSServer(t *testing.T) (addr, caFile string) {
	t.Helper()
	certFile, keyFile := tlstest.WriteCert(t, t.TempDir(), "server")

	w, err := tlsroots.NewWatcher(certFile, keyFile)
	if err != nil {
		t.Fatal(err)
	}
	cfg := redisserver.DefaultConfig()
	cfg.TLS = tlsroots.ServerConfig(w, nil)
	return serve(t, cfg), certFile
}

func serve(t *testing.T, cfg *redisserver.Config) string {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"

	srv := redisserver.New(cfg, memory.New())
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// runApp runs meshkv-cli with args and stdin, isolated from the user's
// home directory, and returns everything written to stdout.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	app := App()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)

	err := app.Run(append([]string{"meshkv-cli"}, args...))
	return out.String(), err
}
