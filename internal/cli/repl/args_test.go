package repl

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "set key value", []string{"set", "key", "value"}},
		{"extra whitespace", "  get \t key  ", []string{"get", "key"}},
		{"double quoted", `set k "hello world"`, []string{"set", "k", "hello world"}},
		{"single quoted", `set k 'a "b" \n'`, []string{"set", "k", `a "b" \n`}},
		{"escapes", `echo "a\tb\n\"c\"\\"`, []string{"echo", "a\tb\n\"c\"\\"}},
		{"hex escape", `echo "\x41\x00"`, []string{"echo", "A\x00"}},
		{"bad hex escape", `echo "\xZZ"`, []string{"echo", "xZZ"}},
		{"empty quoted", `set k ""`, []string{"set", "k", ""}},
		{"adjacent quotes join", `echo ab"cd"'ef'`, []string{"echo", "abcdef"}},
		{"empty line", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if err != nil {
				t.Fatalf("splitArgs() error = %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("splitArgs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitArgs_Unbalanced(t *testing.T) {
	for _, line := range []string{`echo "abc`, `echo 'abc`, `echo "abc\`} {
		if _, err := splitArgs(line); !errors.Is(err, errUnbalancedQuotes) {
			t.Errorf("splitArgs(%q) err = %v, want errUnbalancedQuotes", line, err)
		}
	}
}
