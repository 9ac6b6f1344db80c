package wazero

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/stela-engine/scripthost/domain/entities"
	"github.com/stela-engine/scripthost/hostfuncs"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// DefaultModuleName is the import module scripts use for the bridge.
const DefaultModuleName = "stela"

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// KeepAlive is retained by every exported host function. Holding a weak
	// pointer to it tells the caller when the runtime has been collected.
	KeepAlive any

	// Logger reports malformed guest calls. Default is slog.Default().
	Logger *slog.Logger

	// ModuleName is the host module name (default: "stela").
	ModuleName string

	// CustomHandlers are additional host functions exported from the same module.
	CustomHandlers []CustomHandler

	// MaxMessageSize bounds a single log message read from guest memory.
	// Longer messages are truncated. Default is 64KB.
	MaxMessageSize uint32
}

// CustomHandler is a host function exported next to the bridge functions.
type CustomHandler struct {
	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// Name is the exported function name.
	Name string

	// ParamTypes are the WASM parameter types.
	ParamTypes []api.ValueType

	// ResultTypes are the WASM result types.
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name (default: "stela").
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxMessageSize sets the largest log message read from guest memory.
func WithMaxMessageSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxMessageSize = size
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

// WithKeepAlive makes every exported host function retain v.
func WithKeepAlive(v any) AdapterOption {
	return func(c *AdapterConfig) {
		c.KeepAlive = v
	}
}

// WithLogger sets the logger for malformed guest calls.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = l
	}
}

// defaultAdapterConfig returns the default adapter configuration.
func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName:     DefaultModuleName,
		MaxMessageSize: hostfuncs.DefaultMaxMessageSize,
		Logger:         slog.Default(),
	}
}

// RegisterBridge instantiates the bridge host module in runtime. It must run
// before any script module importing it is instantiated.
//
// Guests see:
//   - log(ptr, len): reads len bytes at ptr from the caller's memory and
//     forwards them to Bridge.Log
//   - key_pressed(key) -> i32: 1 if Bridge.KeyPressed reports the key down, else 0
func RegisterBridge(ctx context.Context, rt wazero.Runtime, bridge *hostfuncs.Bridge, opts ...AdapterOption) (api.Module, error) {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	keep := cfg.KeepAlive
	builder := rt.NewHostModuleBuilder(cfg.ModuleName)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			runtime.KeepAlive(keep)
			handleLog(ctx, mod, stack, bridge, cfg.Logger, cfg.MaxMessageSize)
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{}).
		WithParameterNames("ptr", "len").
		Export(hostfuncs.FuncLog)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			runtime.KeepAlive(keep)
			key := entities.Key(api.DecodeI32(stack[0]))
			stack[0] = boolToI32(bridge.KeyPressed(ctx, key))
		}), []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		WithParameterNames("key").
		Export(hostfuncs.FuncKeyPressed)

	for _, ch := range cfg.CustomHandlers {
		handler := ch.Handler
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				runtime.KeepAlive(keep)
				handler(ctx, mod, stack)
			}), ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	return builder.Instantiate(ctx)
}

// handleLog reads a message from guest memory and forwards it to the bridge,
// cut to maxSize bytes. A bad pointer is reported on the host side; it never
// traps the guest.
func handleLog(ctx context.Context, mod api.Module, stack []uint64, bridge *hostfuncs.Bridge, logger *slog.Logger, maxSize uint32) {
	ptr := api.DecodeU32(stack[0])
	length := api.DecodeU32(stack[1])
	if length == 0 {
		bridge.Log(ctx, "")
		return
	}

	mem := mod.Memory()
	if mem == nil {
		logger.ErrorContext(ctx, "wazero: log called by module without memory", "script", GetScriptName(ctx, mod))
		return
	}

	data, ok := mem.Read(ptr, length)
	if !ok {
		logger.ErrorContext(ctx, "wazero: log message out of bounds",
			"script", GetScriptName(ctx, mod), "ptr", ptr, "length", length)
		return
	}

	msg := hostfuncs.TruncateMessage(data, int(maxSize))
	if len(msg) < len(data) {
		logger.WarnContext(ctx, "wazero: log message truncated",
			"script", GetScriptName(ctx, mod), "length", length, "max", len(msg))
	}

	// Read aliases guest memory; string() copies before the guest can reuse it.
	bridge.Log(ctx, string(msg))
}

func boolToI32(b bool) uint64 {
	if b {
		return api.EncodeI32(1)
	}
	return api.EncodeI32(0)
}
