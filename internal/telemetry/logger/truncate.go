package logger

import (
	"fmt"
	"log/slog"
)

// DefaultMaxValueLen is the default clip length for payload attributes.
const DefaultMaxValueLen = 256

// payloadKeys are attribute keys that may carry client payloads.
var payloadKeys = map[string]bool{
	"value":   true,
	"member":  true,
	"message": true,
	"request": true,
}

// truncateAttr clips the string value of a payload attribute to maxLen bytes
// and records the original length. Groups are walked recursively.
func truncateAttr(a slog.Attr, maxLen int) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = truncateAttr(attr, maxLen)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindString:
		if !payloadKeys[a.Key] {
			return a
		}
		s := a.Value.String()
		if len(s) <= maxLen {
			return a
		}
		return slog.String(a.Key, clip(s, maxLen))
	}
	return a
}

func clip(s string, maxLen int) string {
	return fmt.Sprintf("%s...(%d bytes)", s[:maxLen], len(s))
}
