package hostfuncs

import (
	"context"
)

// HostContext wraps a context.Context with the name of the bridge function
// being invoked, so middleware can tell log calls from key queries.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the bridge function being invoked.
	FunctionName() string
}

type hostContext struct {
	context.Context
	funcName string
}

// NewHostContext creates a new HostContext wrapping the given context.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	return &hostContext{Context: ctx, funcName: funcName}
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

// HostContextFrom returns ctx unchanged if it is already a HostContext for the
// same function, otherwise wraps it.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(HostContext); ok && hc.FunctionName() == funcName {
		return hc
	}
	return NewHostContext(ctx, funcName)
}

type scriptKey struct{}

// WithScriptName records the script type whose hook is running, so bridge
// traffic can be attributed to it.
func WithScriptName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, scriptKey{}, name)
}

// ScriptNameFromContext returns the script type recorded by WithScriptName.
func ScriptNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(scriptKey{}).(string)
	return name, ok
}
