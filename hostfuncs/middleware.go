package hostfuncs

import (
	"context"
)

// Invocation is one call into a host-supplied callback.
type Invocation func(ctx context.Context) error

// Middleware wraps an Invocation to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps outermost).
type Middleware func(next Invocation) Invocation

// PanicRecoveryMiddleware converts a panicking callback into a *PanicError.
// The bridge always installs it innermost, so no host panic reaches the guest.
func PanicRecoveryMiddleware() Middleware {
	return func(next Invocation) Invocation {
		return func(ctx context.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					name := "unknown"
					if hc, ok := ctx.(HostContext); ok {
						name = hc.FunctionName()
					}
					err = NewPanicError(name, r)
				}
			}()
			return next(ctx)
		}
	}
}

// LoggingMiddleware reports every bridge invocation through logFn. Calls made
// from a script hook are named "Script/function".
func LoggingMiddleware(logFn func(format string, args ...any)) Middleware {
	return func(next Invocation) Invocation {
		return func(ctx context.Context) error {
			funcName := "unknown"
			if hc, ok := ctx.(HostContext); ok {
				funcName = hc.FunctionName()
			}
			if script, ok := ScriptNameFromContext(ctx); ok && script != "" {
				funcName = script + "/" + funcName
			}
			err := next(ctx)
			if err != nil {
				logFn("bridge %s failed: %v", funcName, err)
			} else {
				logFn("bridge %s completed", funcName)
			}
			return err
		}
	}
}

func chain(inv Invocation, middleware []Middleware) Invocation {
	wrapped := PanicRecoveryMiddleware()(inv)
	for i := len(middleware) - 1; i >= 0; i-- {
		wrapped = middleware[i](wrapped)
	}
	return wrapped
}
