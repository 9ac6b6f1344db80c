// Package log routes the script host's structured logging to zap.
//
// Core packages log through log/slog. NewHandler adapts a *zap.Logger into an
// slog.Handler so the host process has a single zap-backed sink, and
// NewScriptSink turns it into the log callback scripts reach through the bridge.
package log

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapHandler implements slog.Handler on top of a zap logger.
type ZapHandler struct {
	logger *zap.Logger
	fields []zap.Field
	groups []string
	opts   handlerConfig
}

// HandlerOption configures the ZapHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Level
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// NewHandler creates a ZapHandler writing to logger.
func NewHandler(logger *zap.Logger, opts ...HandlerOption) *ZapHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ZapHandler{logger: logger, opts: cfg}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ZapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level && h.logger.Core().Enabled(toZapLevel(level))
}

// Handle writes record to the zap logger.
func (h *ZapHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]zap.Field, 0, len(h.fields)+record.NumAttrs()+1)
	fields = append(fields, h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendAttr(fields, h.groups, attr)
		return true
	})

	if h.opts.addSource && record.PC != 0 {
		src := record.Source()
		fields = append(fields, zap.String("source", src.File+":"+strconv.Itoa(src.Line)))
	}

	if ce := h.logger.Check(toZapLevel(record.Level), record.Message); ce != nil {
		ce.Time = record.Time
		ce.Write(fields...)
	}
	return nil
}

// WithAttrs returns a new ZapHandler that includes the given attributes.
func (h *ZapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = slices.Clone(h.fields)
	for _, attr := range attrs {
		clone.fields = appendAttr(clone.fields, h.groups, attr)
	}
	return &clone
}

// WithGroup returns a new ZapHandler that qualifies later keys with name.
func (h *ZapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}

func appendAttr(fields []zap.Field, groups []string, attr slog.Attr) []zap.Field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return fields
	}
	if attr.Value.Kind() == slog.KindGroup {
		inner := groups
		if attr.Key != "" {
			inner = append(slices.Clone(groups), attr.Key)
		}
		for _, a := range attr.Value.Group() {
			fields = appendAttr(fields, inner, a)
		}
		return fields
	}
	return append(fields, toZapField(qualify(groups, attr.Key), attr.Value))
}

func qualify(groups []string, key string) string {
	if len(groups) == 0 {
		return key
	}
	return strings.Join(groups, ".") + "." + key
}

// toZapField converts a resolved slog value to a typed zap field.
func toZapField(key string, v slog.Value) zap.Field {
	switch v.Kind() {
	case slog.KindString:
		return zap.String(key, v.String())
	case slog.KindInt64:
		return zap.Int64(key, v.Int64())
	case slog.KindUint64:
		return zap.Uint64(key, v.Uint64())
	case slog.KindBool:
		return zap.Bool(key, v.Bool())
	case slog.KindFloat64:
		return zap.Float64(key, v.Float64())
	case slog.KindTime:
		return zap.Time(key, v.Time())
	case slog.KindDuration:
		return zap.Duration(key, v.Duration())
	default:
		if err, ok := v.Any().(error); ok {
			return zap.NamedError(key, err)
		}
		return zap.Any(key, v.Any())
	}
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
