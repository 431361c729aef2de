package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/meshkv/internal/cli/output"
	"github.com/yndnr/meshkv/pkg/resp"
)

// Executor sends one command to the server.
type Executor func(ctx context.Context, args ...string) (resp.Frame, error)

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	in        io.Reader
	out       io.Writer
	prompt    string
	exec      Executor
	formatter output.Formatter
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.in = in
		r.out = out
	}
}

// WithPrompt sets the prompt.
func WithPrompt(prompt string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithFormatter sets how replies are printed.
func WithFormatter(f output.Formatter) Option {
	return func(r *REPL) {
		r.formatter = f
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL that runs commands with exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		in:        os.Stdin,
		out:       os.Stdout,
		prompt:    "meshkv> ",
		exec:      exec,
		formatter: &output.TextFormatter{},
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads commands until exit, quit, end of input or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		line = strings.TrimSpace(line)
		if line != "" {
			r.history.Add(line)
			if r.dispatch(ctx, line) {
				return nil
			}
		}

		if eof {
			fmt.Fprintln(r.out)
			return nil
		}
	}
}

// dispatch handles one line and reports whether the loop should stop.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	case "history":
		for i, e := range r.history.Entries() {
			fmt.Fprintf(r.out, "%4d  %s\n", i+1, e)
		}
		return false
	}

	if err := r.execute(ctx, line); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
	return false
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	reply, err := r.exec(ctx, args...)
	if err != nil {
		return err
	}
	return r.formatter.Format(r.out, reply)
}
