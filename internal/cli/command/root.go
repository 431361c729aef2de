package command

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/meshkv/internal/cli/config"
	"github.com/yndnr/meshkv/internal/cli/connection"
	"github.com/yndnr/meshkv/internal/cli/output"
	"github.com/yndnr/meshkv/internal/cli/repl"
	"github.com/yndnr/meshkv/internal/infra/buildinfo"
	"github.com/yndnr/meshkv/internal/infra/tlsroots"
)

const configKey = "config"

// App creates the CLI application.
func App() *cli.App {
	commands := DataCommands()
	commands = append(commands, BenchCommand())

	return &cli.App{
		Name:      "meshkv-cli",
		Usage:     "meshkv command-line client",
		ArgsUsage: " ",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Commands:  commands,
		Metadata:  map[string]any{},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata[configKey] = cfg
			return nil
		},
		Action: interactiveAction,
	}
}

// globalFlags returns the global CLI flags. Unset flags fall back to the
// config file and MESHKV_CLI_* variables.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "meshkv server address (default 127.0.0.1:6379)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file (default ~/.meshkv/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Dial and request timeout (default 5s)",
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "Connect using TLS",
		},
		&cli.StringFlag{
			Name:  "cacert",
			Usage: "CA certificate file to verify the server (implies --tls)",
		},
		&cli.StringFlag{
			Name:  "cert",
			Usage: "Client certificate file (implies --tls)",
		},
		&cli.StringFlag{
			Name:  "key",
			Usage: "Client private key file",
		},
		&cli.StringFlag{
			Name:  "sni",
			Usage: "Server name to verify in the server certificate",
		},
	}
}

// GlobalFlags holds the effective connection and output settings.
type GlobalFlags struct {
	Server      string
	Output      output.Format
	Timeout     time.Duration
	HistoryFile string

	// TLS is nil for plaintext connections.
	TLS *tls.Config
}

// DialOptions returns the connection options for the effective settings.
func (g *GlobalFlags) DialOptions() []connection.DialOption {
	if g.TLS == nil {
		return nil
	}
	return []connection.DialOption{connection.WithTLS(g.TLS)}
}

// ParseGlobalFlags merges command-line flags over the loaded configuration.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.CLIConfig)
	if !ok {
		cfg = config.Default()
	}

	g := &GlobalFlags{
		Server:      cfg.Server,
		Timeout:     cfg.Timeout,
		HistoryFile: cfg.HistoryFile,
	}
	format := cfg.Output

	if c.IsSet("server") {
		g.Server = c.String("server")
	}
	if c.IsSet("output") {
		format = c.String("output")
	}
	if c.IsSet("timeout") {
		g.Timeout = c.Duration("timeout")
	}

	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	g.Output = f

	tlsCfg, err := clientTLS(c, cfg.TLS)
	if err != nil {
		return nil, err
	}
	g.TLS = tlsCfg
	return g, nil
}

// clientTLS merges TLS flags over the config section. Any certificate flag
// turns TLS on.
func clientTLS(c *cli.Context, t config.TLSConfig) (*tls.Config, error) {
	if c.IsSet("tls") {
		t.Enabled = c.Bool("tls")
	}
	for flag, dst := range map[string]*string{
		"cacert": &t.CAFile,
		"cert":   &t.CertFile,
		"key":    &t.KeyFile,
		"sni":    &t.ServerName,
	} {
		if c.IsSet(flag) {
			*dst = c.String(flag)
			if flag != "sni" {
				t.Enabled = true
			}
		}
	}
	if !t.Enabled {
		return nil, nil
	}

	cfg, err := tlsroots.ClientConfig(tlsroots.ClientOptions{
		CAFile:     t.CAFile,
		CertFile:   t.CertFile,
		KeyFile:    t.KeyFile,
		ServerName: t.ServerName,
	})
	if err != nil {
		return nil, fmt.Errorf("tls: %w", err)
	}
	return cfg, nil
}

func interactiveAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("unknown command %q (see --help)", c.Args().First())
	}

	g, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	mgr := connection.NewManager(g.Server, g.Timeout, g.DialOptions()...)
	defer mgr.Disconnect()

	history := repl.NewHistory(g.HistoryFile)
	if err := history.Load(); err != nil {
		PrintError("load history: %v", err)
	}

	r := repl.New(mgr.Do,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithFormatter(output.NewFormatter(g.Output)),
		repl.WithHistory(history),
		repl.WithPrompt(g.Server+"> "),
	)

	runErr := r.Run(cmdContext(c))
	if err := history.Save(); err != nil {
		PrintError("save history: %v", err)
	}
	return runErr
}

func cmdContext(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
