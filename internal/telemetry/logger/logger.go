package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	// WithContext binds ctx to the logger. Records emitted through the
	// result carry the connection ID stored in ctx, if any.
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string    // debug, info, warn or error
	Format string    // json or text ("console" is an alias for text)
	Output io.Writer // nil selects os.Stderr

	AddSource bool

	// MaxValueLen clips payload attributes longer than this many bytes.
	// Zero selects DefaultMaxValueLen.
	MaxValueLen int
}

// DefaultConfig returns the configuration used before the server config is
// loaded.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "json",
		Output:      os.Stderr,
		MaxValueLen: DefaultMaxValueLen,
	}
}

// levels maps accepted level names to slog levels. The first name listed
// for a level is its canonical spelling.
var levels = []struct {
	names []string
	level slog.Level
}{
	{[]string{"debug"}, slog.LevelDebug},
	{[]string{"info"}, slog.LevelInfo},
	{[]string{"warn", "warning"}, slog.LevelWarn},
	{[]string{"error"}, slog.LevelError},
}

// level is shared by every logger built by New, so SetLevel applies to
// loggers created earlier too.
var level = new(slog.LevelVar)

func lookupLevel(name string) (slog.Level, bool) {
	name = strings.ToLower(name)
	for _, l := range levels {
		for _, n := range l.names {
			if n == name {
				return l.level, true
			}
		}
	}
	return slog.LevelInfo, false
}

// ValidLevel reports whether name is an accepted log level.
func ValidLevel(name string) bool {
	_, ok := lookupLevel(name)
	return ok
}

// SetLevel changes the level of all loggers. Unknown names select info.
func SetLevel(name string) {
	l, _ := lookupLevel(name)
	level.Set(l)
}

// GetLevel returns the canonical name of the current level.
func GetLevel() string {
	cur := level.Level()
	for _, l := range levels {
		if l.level == cur {
			return l.names[0]
		}
	}
	return "info"
}

// New creates a logger. The level set by cfg becomes the global level.
func New(cfg Config) (Logger, error) {
	SetLevel(cfg.Level)

	maxLen := cfg.MaxValueLen
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return truncateAttr(a, maxLen)
		},
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		h = slog.NewTextHandler(out, opts)
	default:
		h = slog.NewJSONHandler(out, opts)
	}

	return &slogLogger{
		logger: slog.New(connHandler{h}),
		ctx:    context.Background(),
	}, nil
}

// connHandler adds the connection ID found in the record's context.
type connHandler struct {
	slog.Handler
}

func (h connHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := ConnIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("conn_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h connHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return connHandler{h.Handler.WithAttrs(attrs)}
}

func (h connHandler) WithGroup(name string) slog.Handler {
	return connHandler{h.Handler.WithGroup(name)}
}

type slogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.DebugContext(l.ctx, msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.InfoContext(l.ctx, msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.WarnContext(l.ctx, msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.ErrorContext(l.ctx, msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{logger: l.logger, ctx: ctx}
}

// AsSlog returns the *slog.Logger behind l, for components that take one.
// Loggers not built by New map to slog.Default.
func AsSlog(l Logger) *slog.Logger {
	if sl, ok := l.(*slogLogger); ok {
		return sl.logger
	}
	return slog.Default()
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the logger behind the package-level functions.
// Loggers not built by New are ignored.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the package-level logger.
func Default() Logger {
	return defaultLogger.Load()
}

func Debug(msg string, args ...any) { defaultLogger.Load().Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Load().Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Load().Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Load().Error(msg, args...) }
