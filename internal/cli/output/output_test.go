package output

import (
	"bytes"
	"math"
	"testing"

	"github.com/yndnr/meshkv/pkg/resp"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"table", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json should give a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("text should give a TextFormatter")
	}
	if _, ok := NewFormatter("other").(*TextFormatter); !ok {
		t.Error("unknown formats fall back to text")
	}
}

// ============================================================
// Text
// ============================================================

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name  string
		frame resp.Frame
		want  string
	}{
		{"simple string", resp.OK(), "OK\n"},
		{"error", resp.NewError("ERR unknown command 'x'"), "(error) ERR unknown command 'x'\n"},
		{"integer", resp.Integer(2), "(integer) 2\n"},
		{"bulk", resp.NewBulkString("hello"), "\"hello\"\n"},
		{"bulk with quotes", resp.NewBulkString(`say "hi"`), "\"say \\\"hi\\\"\"\n"},
		{"null bulk", resp.NullBulkString(), "(nil)\n"},
		{"null array", resp.NullArray(), "(nil)\n"},
		{"empty array", resp.NewArray(), "(empty array)\n"},
		{"boolean", resp.Boolean(true), "(true)\n"},
		{"double", resp.Double(1.5), "(double) 1.5\n"},
		{"array", resp.NewArray(resp.NewBulkString("a"), resp.NewBulkString("b")), "1) \"a\"\n2) \"b\"\n"},
		{"set", resp.Set{resp.NewBulkString("m")}, "1) \"m\"\n"},
		{"empty map", resp.Map{}, "(empty hash)\n"},
		{
			"map",
			resp.Map{{Key: "f1", Value: resp.NewBulkString("v1")}, {Key: "f2", Value: resp.Integer(2)}},
			"1# \"f1\" => \"v1\"\n2# \"f2\" => (integer) 2\n",
		},
		{
			"nested array",
			resp.NewArray(resp.NewArray(resp.Integer(1), resp.Integer(2)), resp.OK()),
			"1) 1) (integer) 1\n   2) (integer) 2\n2) OK\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&TextFormatter{}).Format(&buf, tt.frame); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestTextFormatter_WidePrefix(t *testing.T) {
	elems := make([]resp.Frame, 10)
	for i := range elems {
		elems[i] = resp.Integer(i)
	}

	var buf bytes.Buffer
	(&TextFormatter{}).Format(&buf, resp.NewArray(elems...))

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	if string(lines[0]) != " 1) (integer) 0" || string(lines[9]) != "10) (integer) 9" {
		t.Errorf("lines = %q", lines)
	}
}

// ============================================================
// JSON
// ============================================================

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name  string
		frame resp.Frame
		want  string
	}{
		{"simple string", resp.OK(), "\"OK\"\n"},
		{"error", resp.NewError("ERR bad"), "{\n  \"error\": \"ERR bad\"\n}\n"},
		{"integer", resp.Integer(7), "7\n"},
		{"null bulk", resp.NullBulkString(), "null\n"},
		{"inf", resp.Double(math.Inf(1)), "\"+Inf\"\n"},
		{"array", resp.NewArray(resp.NewBulkString("a"), resp.NullBulkString()), "[\n  \"a\",\n  null\n]\n"},
		{"map", resp.Map{{Key: "f", Value: resp.NewBulkString("v")}}, "{\n  \"f\": \"v\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONFormatter{}).Format(&buf, tt.frame); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
