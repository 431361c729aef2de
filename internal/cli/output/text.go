package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/meshkv/pkg/resp"
)

// TextFormatter renders replies the way redis-cli does.
type TextFormatter struct{}

// Format writes f followed by a newline.
func (t *TextFormatter) Format(w io.Writer, f resp.Frame) error {
	var b strings.Builder
	writeText(&b, f, 0)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func writeText(b *strings.Builder, f resp.Frame, indent int) {
	switch v := f.(type) {
	case resp.SimpleString:
		b.WriteString(string(v))
	case resp.SimpleError:
		b.WriteString("(error) ")
		b.WriteString(string(v))
	case resp.Integer:
		fmt.Fprintf(b, "(integer) %d", int64(v))
	case resp.BulkString:
		if v.Null {
			b.WriteString("(nil)")
			return
		}
		b.WriteString(strconv.Quote(string(v.Data)))
	case resp.Boolean:
		fmt.Fprintf(b, "(%t)", bool(v))
	case resp.Double:
		fmt.Fprintf(b, "(double) %s", strconv.FormatFloat(float64(v), 'g', -1, 64))
	case resp.Array:
		if v.Null {
			b.WriteString("(nil)")
			return
		}
		writeList(b, v.Elems, indent)
	case resp.Set:
		writeList(b, v, indent)
	case resp.Map:
		if len(v) == 0 {
			b.WriteString("(empty hash)")
			return
		}
		width := len(strconv.Itoa(len(v)))
		for i, e := range v {
			if i > 0 {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat(" ", indent))
			}
			prefix := fmt.Sprintf("%*d# ", width, i+1)
			b.WriteString(prefix)
			b.WriteString(strconv.Quote(e.Key))
			b.WriteString(" => ")
			writeText(b, e.Value, indent+len(prefix))
		}
	default:
		fmt.Fprintf(b, "(unknown %T)", f)
	}
}

func writeList(b *strings.Builder, elems []resp.Frame, indent int) {
	if len(elems) == 0 {
		b.WriteString("(empty array)")
		return
	}
	width := len(strconv.Itoa(len(elems)))
	for i, e := range elems {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", indent))
		}
		prefix := fmt.Sprintf("%*d) ", width, i+1)
		b.WriteString(prefix)
		writeText(b, e, indent+len(prefix))
	}
}
