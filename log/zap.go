package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats accepted by NewZap.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// NewZap builds a zap logger writing format-encoded entries at level or above to w.
func NewZap(level slog.Level, format string, w io.Writer) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch format {
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	case FormatConsole, "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), toZapLevel(level))
	return zap.New(core), nil
}

// NewSlog returns an slog.Logger backed by z.
func NewSlog(z *zap.Logger, opts ...HandlerOption) *slog.Logger {
	return slog.New(NewHandler(z, opts...))
}

// NewScriptSink returns a bridge log callback writing script messages to z
// under the "script" logger name.
func NewScriptSink(z *zap.Logger) func(message string) {
	named := z.Named("script")
	return func(message string) {
		named.Info(message)
	}
}
