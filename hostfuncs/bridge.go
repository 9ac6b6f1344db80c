package hostfuncs

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/stela-engine/scripthost/domain/entities"
)

// Bridge function names, as seen by middleware and guests.
const (
	FuncLog        = "log"
	FuncKeyPressed = "key_pressed"
)

// LogFunc is the host callback that receives a script log message.
type LogFunc func(message string)

// KeyPressedFunc is the host callback that answers a key query.
type KeyPressedFunc func(key entities.Key) bool

// Bridge holds the two host callbacks scripts may reach. The callbacks are
// owned by the host and outlive every module session; until they are set, Log
// is a no-op and KeyPressed reports false.
type Bridge struct {
	logFn  atomic.Pointer[LogFunc]
	keyFn  atomic.Pointer[KeyPressedFunc]
	config bridgeConfig
}

type bridgeConfig struct {
	logger     *slog.Logger
	middleware []Middleware
}

// BridgeOption configures a Bridge.
type BridgeOption func(*bridgeConfig)

// WithLogger sets the logger used to report failing host callbacks.
func WithLogger(l *slog.Logger) BridgeOption {
	return func(c *bridgeConfig) {
		c.logger = l
	}
}

// WithMiddleware adds middleware around every host callback invocation.
func WithMiddleware(mw ...Middleware) BridgeOption {
	return func(c *bridgeConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// NewBridge creates an unarmed Bridge.
func NewBridge(opts ...BridgeOption) *Bridge {
	cfg := bridgeConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Bridge{config: cfg}
}

// Set stores the host callbacks. It may be called again to re-arm the bridge;
// a nil callback disarms that half.
func (b *Bridge) Set(logFn LogFunc, keyFn KeyPressedFunc) {
	if logFn == nil {
		b.logFn.Store(nil)
	} else {
		b.logFn.Store(&logFn)
	}
	if keyFn == nil {
		b.keyFn.Store(nil)
	} else {
		b.keyFn.Store(&keyFn)
	}
}

// Armed reports whether both callbacks are set.
func (b *Bridge) Armed() bool {
	return b.logFn.Load() != nil && b.keyFn.Load() != nil
}

// Log forwards message to the host log callback.
func (b *Bridge) Log(ctx context.Context, message string) {
	fn := b.logFn.Load()
	if fn == nil {
		return
	}
	b.invoke(ctx, FuncLog, func(context.Context) error {
		(*fn)(message)
		return nil
	})
}

// KeyPressed asks the host whether key is pressed. Unknown keys are never pressed.
func (b *Bridge) KeyPressed(ctx context.Context, key entities.Key) bool {
	fn := b.keyFn.Load()
	if fn == nil || !key.Valid() {
		return false
	}
	var pressed bool
	ok := b.invoke(ctx, FuncKeyPressed, func(context.Context) error {
		pressed = (*fn)(key)
		return nil
	})
	return ok && pressed
}

func (b *Bridge) invoke(ctx context.Context, name string, inv Invocation) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	hctx := HostContextFrom(ctx, name)
	if err := chain(inv, b.config.middleware)(hctx); err != nil {
		b.config.logger.ErrorContext(ctx, "bridge: host callback failed", "function", name, "error", err)
		return false
	}
	return true
}
