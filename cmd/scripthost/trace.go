package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stela-engine/scripthost/hostfuncs"
)

// traceBridge logs every bridge call at debug level, naming the calling script.
func traceBridge(logger *slog.Logger) hostfuncs.Middleware {
	return func(next hostfuncs.Invocation) hostfuncs.Invocation {
		return func(ctx context.Context) error {
			if !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx)
			}
			logged := hostfuncs.LoggingMiddleware(func(format string, args ...any) {
				logger.DebugContext(ctx, fmt.Sprintf(format, args...))
			})
			return logged(next)(ctx)
		}
	}
}
