package script

import (
	"log/slog"
	"strings"
)

// logWriter forwards each written line to the host log.
type logWriter struct {
	send func(string)
}

func (w logWriter) Write(p []byte) (int, error) {
	w.send(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewLogger returns an slog.Logger whose records reach the host log as
// logfmt lines. Records below level are dropped in the guest.
func NewLogger(level slog.Level) *slog.Logger {
	return newLogger(Log, level)
}

func newLogger(send func(string), level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(logWriter{send: send}, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// The host stamps its own time.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
