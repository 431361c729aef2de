package output

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/yndnr/meshkv/pkg/resp"
)

// JSONFormatter formats replies as indented JSON. Error replies become
// {"error": "..."}; null replies become null.
type JSONFormatter struct{}

// Format writes f as JSON.
func (f *JSONFormatter) Format(w io.Writer, frame resp.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toJSON(frame))
}

func toJSON(f resp.Frame) any {
	switch v := f.(type) {
	case resp.SimpleString:
		return string(v)
	case resp.SimpleError:
		return map[string]string{"error": string(v)}
	case resp.Integer:
		return int64(v)
	case resp.BulkString:
		if v.Null {
			return nil
		}
		return string(v.Data)
	case resp.Boolean:
		return bool(v)
	case resp.Double:
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			return strconv.FormatFloat(float64(v), 'g', -1, 64)
		}
		return float64(v)
	case resp.Array:
		if v.Null {
			return nil
		}
		return listJSON(v.Elems)
	case resp.Set:
		return listJSON(v)
	case resp.Map:
		out := make(map[string]any, len(v))
		for _, e := range v {
			out[e.Key] = toJSON(e.Value)
		}
		return out
	default:
		return nil
	}
}

func listJSON(elems []resp.Frame) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = toJSON(e)
	}
	return out
}
