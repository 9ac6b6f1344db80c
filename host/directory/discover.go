package directory

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/stela-engine/scripthost/domain/entities"
	domainerrors "github.com/stela-engine/scripthost/domain/errors"
	"github.com/tetratelabs/wazero/api"
)

// DefaultReservedTypes are coordination and support types never treated as scripts.
var DefaultReservedTypes = []string{"ScriptManager", "ScriptAPI", "Input"}

type discoverConfig struct {
	logger   *slog.Logger
	sink     Reporter
	reserved []string
}

// Option configures Discover.
type Option func(*discoverConfig)

// WithLogger sets the logger for discovery warnings and hook failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *discoverConfig) {
		c.logger = l
	}
}

// WithReporter forwards hook failures and disabled hooks to r as well as the
// logger.
func WithReporter(r Reporter) Option {
	return func(c *discoverConfig) {
		c.sink = r
	}
}

// WithReservedTypes replaces the set of excluded type names. A name matches
// either the full type name or its last dotted segment.
func WithReservedTypes(names ...string) Option {
	return func(c *discoverConfig) {
		c.reserved = slices.Clone(names)
	}
}

// exportedType groups the exported functions sharing one type prefix.
type exportedType struct {
	methods  map[string]api.FunctionDefinition
	name     string
	minIndex uint32
}

// Discover scans mod's exports for scripts, constructs one instance of each
// and returns them as a Directory in module definition order. Per-type
// failures are logged and skip only that type.
func Discover(ctx context.Context, mod api.Module, opts ...Option) *Directory {
	cfg := discoverConfig{logger: slog.Default(), reserved: DefaultReservedTypes}
	for _, opt := range opts {
		opt(&cfg)
	}

	var entries []*Entry
	for _, t := range groupExports(mod.ExportedFunctionDefinitions()) {
		if isReserved(t.name, cfg.reserved) || isHidden(t.name) {
			continue
		}
		entry, ok := bind(ctx, mod, t, &cfg)
		if ok {
			entries = append(entries, entry)
		}
	}
	return New(entries, cfg.logger, cfg.sink)
}

// TypeName splits an export name into its type prefix and member name.
// Names without a dot have no type.
func TypeName(export string) (typ, member string, ok bool) {
	i := strings.LastIndexByte(export, '.')
	if i <= 0 || i == len(export)-1 {
		return "", "", false
	}
	return export[:i], export[i+1:], true
}

// HasType reports whether any exported function belongs to typ.
func HasType(defs map[string]api.FunctionDefinition, typ string) bool {
	for name := range defs {
		if t, _, ok := TypeName(name); ok && t == typ {
			return true
		}
	}
	return false
}

func groupExports(defs map[string]api.FunctionDefinition) []*exportedType {
	byName := make(map[string]*exportedType)
	for export, def := range defs {
		typ, member, ok := TypeName(export)
		if !ok {
			continue
		}
		t, exists := byName[typ]
		if !exists {
			t = &exportedType{name: typ, methods: make(map[string]api.FunctionDefinition), minIndex: def.Index()}
			byName[typ] = t
		}
		t.methods[member] = def
		if def.Index() < t.minIndex {
			t.minIndex = def.Index()
		}
	}

	out := make([]*exportedType, 0, len(byName))
	for _, t := range byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].minIndex != out[j].minIndex {
			return out[i].minIndex < out[j].minIndex
		}
		return out[i].name < out[j].name
	})
	return out
}

func isReserved(typ string, reserved []string) bool {
	simple := typ[strings.LastIndexByte(typ, '.')+1:]
	for _, r := range reserved {
		if typ == r || simple == r {
			return true
		}
	}
	return false
}

func isHidden(typ string) bool {
	return strings.HasPrefix(typ[strings.LastIndexByte(typ, '.')+1:], "_")
}

// bind applies the structural script test to t and, if it passes, constructs
// the instance and binds its hooks.
func bind(ctx context.Context, mod api.Module, t *exportedType, cfg *discoverConfig) (*Entry, bool) {
	handleType := api.ValueTypeI32
	ctor, hasCtor := t.methods[entities.ConstructorName]
	if hasCtor {
		if len(ctor.ParamTypes()) != 0 || len(ctor.ResultTypes()) != 1 || !isHandleType(ctor.ResultTypes()[0]) {
			cfg.logger.DebugContext(ctx, "directory: type has no usable constructor", "type", t.name)
			return nil, false
		}
		handleType = ctor.ResultTypes()[0]
	}

	qualifies := false
	for _, hook := range entities.Hooks {
		if def, ok := t.methods[string(hook)]; ok && isInstance(def, handleType) {
			qualifies = true
			break
		}
	}
	if !qualifies {
		return nil, false
	}

	entry := &Entry{Type: t.name}
	if hasCtor {
		res, err := mod.ExportedFunction(t.name+"."+entities.ConstructorName).Call(ctx)
		if err != nil {
			ReportHookError(ctx, cfg.logger, cfg.sink, &domainerrors.HookInvocationError{Script: t.name, Hook: entities.ConstructorName, Err: err})
			return nil, false
		}
		entry.Instance = res[0]
	}

	entry.start = bindExact(ctx, mod, t, entities.HookStart, handleType, cfg)
	entry.shutdown = bindExact(ctx, mod, t, entities.HookShutdown, handleType, cfg)
	entry.update, entry.dtType = bindUpdate(ctx, mod, t, handleType, cfg)
	entry.UpdateTakesDt = entry.dtType != 0

	return entry, true
}

// bindExact binds a hook that must be exactly (self) -> ().
func bindExact(ctx context.Context, mod api.Module, t *exportedType, hook entities.Hook, handleType api.ValueType, cfg *discoverConfig) api.Function {
	def, ok := t.methods[string(hook)]
	if !ok || !isInstance(def, handleType) {
		return nil
	}
	if len(def.ParamTypes()) != 1 || len(def.ResultTypes()) != 0 {
		warnShape(ctx, cfg, t.name, hook, def)
		return nil
	}
	return mod.ExportedFunction(t.name + "." + string(hook))
}

// bindUpdate binds OnUpdate as (self) or (self, f32|f64). The returned value
// type is the dt encoding, or 0 when the hook takes no dt.
func bindUpdate(ctx context.Context, mod api.Module, t *exportedType, handleType api.ValueType, cfg *discoverConfig) (api.Function, api.ValueType) {
	def, ok := t.methods[string(entities.HookUpdate)]
	if !ok || !isInstance(def, handleType) {
		return nil, 0
	}
	params := def.ParamTypes()
	if len(def.ResultTypes()) != 0 {
		warnShape(ctx, cfg, t.name, entities.HookUpdate, def)
		return nil, 0
	}
	fn := mod.ExportedFunction(t.name + "." + string(entities.HookUpdate))
	switch {
	case len(params) == 1:
		return fn, 0
	case len(params) == 2 && (params[1] == api.ValueTypeF32 || params[1] == api.ValueTypeF64):
		return fn, params[1]
	default:
		warnShape(ctx, cfg, t.name, entities.HookUpdate, def)
		return nil, 0
	}
}

func isHandleType(t api.ValueType) bool {
	return t == api.ValueTypeI32 || t == api.ValueTypeI64
}

func isInstance(def api.FunctionDefinition, handleType api.ValueType) bool {
	params := def.ParamTypes()
	return len(params) > 0 && params[0] == handleType
}
