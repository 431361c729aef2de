package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/meshkv/internal/cli/output"
	"github.com/yndnr/meshkv/pkg/resp"
)

// recorder is an Executor that echoes its arguments back as an array.
type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(ctx context.Context, args ...string) (resp.Frame, error) {
	r.calls = append(r.calls, args)
	if r.err != nil {
		return nil, r.err
	}
	elems := make([]resp.Frame, len(args))
	for i, a := range args {
		elems[i] = resp.NewBulkString(a)
	}
	return resp.NewArray(elems...), nil
}

func newTestREPL(input string, rec *recorder) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := New(rec.exec, WithIO(strings.NewReader(input), out))
	return r, out
}

func TestNew(t *testing.T) {
	r := New(nil)
	if r.history == nil {
		t.Error("history should be initialized")
	}
	if r.prompt != "meshkv> " {
		t.Errorf("prompt = %q", r.prompt)
	}
	if _, ok := r.formatter.(*output.TextFormatter); !ok {
		t.Error("default formatter should be text")
	}
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"upper case", "QUIT\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r, _ := newTestREPL(tt.input, rec)

			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() returned error: %v", err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("no command should reach the server, got %v", rec.calls)
			}
		})
	}
}

func TestREPL_Run_EmptyLines(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("\n\n\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	if prompts := strings.Count(out.String(), "meshkv>"); prompts != 4 {
		t.Errorf("prompts = %d, want 4", prompts)
	}
	if len(r.history.Entries()) != 1 {
		t.Errorf("empty lines should not be recorded, history = %v", r.history.Entries())
	}
}

func TestREPL_Run_ExecutesCommands(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("sadd key \"member one\" m2\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	if len(rec.calls) != 1 {
		t.Fatalf("calls = %v", rec.calls)
	}
	if got := strings.Join(rec.calls[0], "|"); got != "sadd|key|member one|m2" {
		t.Errorf("args = %q", got)
	}
	if !strings.Contains(out.String(), "3) \"member one\"") {
		t.Errorf("reply not printed, output = %q", out.String())
	}
}

func TestREPL_Run_LastLineWithoutNewline(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestREPL("ping", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0][0] != "ping" {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestREPL_Run_ExecutorError(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	r, out := newTestREPL("ping\nping\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if strings.Count(out.String(), "Error: connection refused") != 2 {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Run_BadQuotes(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("set k \"unterminated\nexit\n", rec)

	r.Run(context.Background())

	if len(rec.calls) != 0 {
		t.Errorf("malformed line should not be sent, calls = %v", rec.calls)
	}
	if !strings.Contains(out.String(), "Error: unbalanced quotes") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Run_History(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("  ping  \n\techo hi\t\nhistory\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if r.history.Get(0) != "exit" || r.history.Get(2) != "echo hi" || r.history.Get(3) != "ping" {
		t.Errorf("history = %v", r.history.Entries())
	}
	if !strings.Contains(out.String(), "   1  ping\n   2  echo hi\n") {
		t.Errorf("history output = %q", out.String())
	}
}

func TestREPL_Run_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := newTestREPL("ping\n", &recorder{})
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestREPL_JSONFormatter(t *testing.T) {
	rec := &recorder{}
	out := &bytes.Buffer{}
	r := New(rec.exec,
		WithIO(strings.NewReader("echo x\n"), out),
		WithFormatter(&output.JSONFormatter{}),
		WithPrompt("> "),
	)

	r.Run(context.Background())

	if !strings.Contains(out.String(), "[\n  \"echo\",\n  \"x\"\n]") {
		t.Errorf("output = %q", out.String())
	}
}
