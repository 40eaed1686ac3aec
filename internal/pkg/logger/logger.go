// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey represents keys for context values
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyActor     ContextKey = "actor"
	ContextKeyTraceID   ContextKey = "trace_id"
	ContextKeyClientIP  ContextKey = "client_ip"
	ContextKeyUserAgent ContextKey = "user_agent"
	ContextKeyMethod    ContextKey = "method"
	ContextKeyPath      ContextKey = "path"
	ContextKeyTaskID    ContextKey = "task_id"
	ContextKeyTaskType  ContextKey = "task_type"
)

// DefaultActor is recorded when a request carries no actor
const DefaultActor = "system"

// contextKeys are lifted onto every record by ContextHandler, in this order
var contextKeys = []ContextKey{
	ContextKeyRequestID,
	ContextKeyActor,
	ContextKeyTraceID,
	ContextKeyClientIP,
	ContextKeyUserAgent,
	ContextKeyMethod,
	ContextKeyPath,
	ContextKeyTaskID,
	ContextKeyTaskType,
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level          string
	Format         string // json, text, pretty
	Output         string // stdout, stderr, file:<path>
	AddSource      bool
	SampleRate     float64
	Environment    string
	ServiceName    string
	ServiceVersion string
}

// Logger wraps slog.Logger with the configuration it was built from
type Logger struct {
	*slog.Logger
	config *LogConfig
}

// SetupLogger builds the process logger and installs it as the slog default
func SetupLogger(level string, format string) *Logger {
	logger := NewLogger(&LogConfig{
		Level:          level,
		Format:         format,
		Output:         "stdout",
		AddSource:      level == "debug",
		ServiceName:    os.Getenv("SERVICE_NAME"),
		ServiceVersion: os.Getenv("SERVICE_VERSION"),
		Environment:    os.Getenv("APP_ENV"),
	})
	slog.SetDefault(logger.Logger)
	return logger
}

// NewLogger creates a logger. Records pass through context enrichment,
// optional sampling and secret redaction before reaching the writer.
func NewLogger(config *LogConfig) *Logger {
	if config == nil {
		config = &LogConfig{Level: "info", Format: "json", Output: "stdout"}
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return replaceAttr(config, groups, a)
		},
	}

	writer := getWriter(config.Output)

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	case "pretty":
		handler = NewPrettyTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	handler = NewContextHandler(handler)
	if config.SampleRate > 0 && config.SampleRate < 1.0 {
		handler = NewSamplingHandler(handler, config.SampleRate)
	}
	handler = NewSanitizationHandler(handler)

	var attrs []slog.Attr
	if config.ServiceName != "" {
		attrs = append(attrs, slog.String("service", config.ServiceName))
	}
	if config.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", config.ServiceVersion))
	}
	if config.Environment != "" {
		attrs = append(attrs, slog.String("env", config.Environment))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return &Logger{Logger: slog.New(handler), config: config}
}

// WithContext returns a logger carrying the context values as attributes
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	if attrs := extractContextAttrs(ctx); len(attrs) > 0 {
		return l.Logger.With(attrs...)
	}
	return l.Logger
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getWriter(output string) io.Writer {
	switch {
	case output == "stderr":
		return os.Stderr
	case strings.HasPrefix(output, "file:"):
		file, err := os.OpenFile(strings.TrimPrefix(output, "file:"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return os.Stdout
		}
		return file
	default:
		return os.Stdout
	}
}

func extractContextAttrs(ctx context.Context) []any {
	var attrs []any
	for _, key := range contextKeys {
		switch v := ctx.Value(key).(type) {
		case nil:
		case string:
			if v != "" {
				attrs = append(attrs, slog.String(string(key), v))
			}
		case uuid.UUID:
			attrs = append(attrs, slog.String(string(key), v.String()))
		default:
			attrs = append(attrs, slog.Any(string(key), v))
		}
	}
	return attrs
}

func replaceAttr(config *LogConfig, _ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
		}
	}
	if a.Key == slog.LevelKey && config.Format == "json" {
		a.Key = "severity"
	}
	if strings.HasSuffix(a.Key, "_ms") {
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Float64Value(float64(d.Microseconds()) / 1000)
		}
	}
	return a
}

// WithActor records who performs the operations carried by ctx
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// ActorFromContext returns the recorded actor or DefaultActor
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(ContextKeyActor).(string); ok && actor != "" {
		return actor
	}
	return DefaultActor
}

// WithRequestID stores the request id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}

// RequestIDFromContext returns the request id or an empty string
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

// WithTask tags ctx with the background task being processed
func WithTask(ctx context.Context, taskID, taskType string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyTaskID, taskID)
	return context.WithValue(ctx, ContextKeyTaskType, taskType)
}
