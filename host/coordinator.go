package host

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/stela-engine/scripthost/domain/entities"
	domainerrors "github.com/stela-engine/scripthost/domain/errors"
	"github.com/stela-engine/scripthost/host/directory"
	"github.com/stela-engine/scripthost/hostfuncs"
	wazeroadapter "github.com/stela-engine/scripthost/infrastructure/wazero"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// State is the coordinator's lifecycle state.
type State int32

const (
	// StateUninitialized means Initialize has not been called.
	StateUninitialized State = iota
	// StateNoModuleLoaded means no session is active.
	StateNoModuleLoaded
	// StateModuleActive means exactly one session is active.
	StateModuleActive
	// StateReloading means a LoadOrReload is in progress.
	StateReloading
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateNoModuleLoaded:
		return "no_module_loaded"
	case StateModuleActive:
		return "module_active"
	case StateReloading:
		return "reloading"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Coordinator loads, reloads and drives script modules.
type Coordinator struct {
	bridge  *hostfuncs.Bridge
	session *Session
	config  config
	state   State
}

// NewCoordinator creates a Coordinator with no module loaded.
func NewCoordinator(opts ...Option) *Coordinator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Coordinator{
		config: cfg,
		bridge: hostfuncs.NewBridge(
			hostfuncs.WithLogger(cfg.logger),
			hostfuncs.WithMiddleware(cfg.bridgeMiddleware...),
		),
	}
}

// Initialize stores the host callbacks scripts reach through the bridge. It
// may be called again to re-arm them.
func (c *Coordinator) Initialize(logFn hostfuncs.LogFunc, keyPressedFn hostfuncs.KeyPressedFunc) {
	c.bridge.Set(logFn, keyPressedFn)
	if c.state == StateUninitialized {
		c.state = StateNoModuleLoaded
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return c.state
}

// Bridge returns the bridge shared by every session.
func (c *Coordinator) Bridge() *hostfuncs.Bridge {
	return c.bridge
}

// Session describes the active session, or returns nil when none is loaded.
func (c *Coordinator) Session() *entities.SessionInfo {
	if c.session == nil {
		return nil
	}
	return c.session.Info()
}

// LoadOrReload replaces the active module with the one at path.
//
// The image is read before anything else happens, so an empty or unreadable
// path leaves the current session running. Otherwise the current session is
// shut down and reclaimed first, then the new module is compiled, checked for
// the coordination type, instantiated and its scripts started. The returned
// error maps to a host status code with errors.StatusOf.
func (c *Coordinator) LoadOrReload(ctx context.Context, path string) error {
	if c.state == StateReloading {
		return &domainerrors.UnexpectedLoadError{Path: path, Stage: "reload", Err: domainerrors.ErrReloadInProgress}
	}
	if path == "" {
		return &domainerrors.InvalidPathError{Err: domainerrors.ErrEmptyPath}
	}

	image, err := c.config.imageReader(path)
	if err != nil {
		return &domainerrors.InvalidPathError{Path: path, Err: err}
	}
	if !c.bridge.Armed() {
		c.config.logger.WarnContext(ctx, "host: bridge not armed, script logs and key queries are dropped", "path", path)
	}

	c.state = StateReloading
	if c.session != nil {
		c.teardown(ctx)
	}

	sess, err := c.load(ctx, path, image)
	if err != nil {
		c.state = StateNoModuleLoaded
		detail := domainerrors.ToErrorDetail(err)
		c.config.logger.ErrorContext(ctx, "host: module load failed",
			"path", path, "kind", detail.Type, "stage", detail.Code, "status", detail.Status, "error", err)
		return err
	}

	sess.start(ctx)
	c.session = sess
	c.state = StateModuleActive
	c.config.logger.InfoContext(ctx, "host: module loaded",
		"path", path, "session", sess.id, "scripts", sess.dir.Len())
	return nil
}

// Tick runs one frame: every script's update hook, then the coordination
// Update. It does nothing without an active session or after Shutdown.
func (c *Coordinator) Tick(ctx context.Context, dt float32) {
	if c.state != StateModuleActive || c.session == nil {
		return
	}
	c.session.update(ctx, dt)
}

// Shutdown runs every shutdown hook once. The module stays loaded until the
// next LoadOrReload or Close.
func (c *Coordinator) Shutdown(ctx context.Context) {
	if c.session == nil || c.state == StateReloading {
		return
	}
	c.session.stop(ctx)
}

// Close shuts down and releases the active session.
func (c *Coordinator) Close(ctx context.Context) error {
	if c.session == nil || c.state == StateReloading {
		return nil
	}
	c.state = StateReloading
	err := c.teardown(ctx)
	c.state = StateNoModuleLoaded
	return err
}

// teardown stops the active session, revokes its runtime and blocks until the
// runtime has been collected or the reclaim budget is spent.
func (c *Coordinator) teardown(ctx context.Context) error {
	sess := c.session
	c.session = nil

	sess.stop(ctx)
	id := sess.id
	ref, err := sess.revoke(ctx)
	if err != nil {
		c.config.logger.WarnContext(ctx, "host: closing runtime failed", "session", id, "error", err)
	}

	start := time.Now()
	cycles, ok := reclaim(ref, c.config.reclaimAttempts)
	if !ok {
		c.config.logger.ErrorContext(ctx, "host: session not reclaimed", "session", id, "cycles", cycles)
		return err
	}
	c.config.logger.DebugContext(ctx, "host: session reclaimed",
		"session", id, "cycles", cycles, "elapsed", time.Since(start))
	return err
}

// load builds a session for image. On failure nothing of it survives.
func (c *Coordinator) load(ctx context.Context, path string, image []byte) (*Session, error) {
	cfg := c.config
	id := uuid.New()
	token := &sessionToken{id: id, path: path}

	rtConfig := wazero.NewRuntimeConfig()
	if cfg.memoryLimitPages > 0 {
		rtConfig = rtConfig.WithMemoryLimitPages(cfg.memoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rtConfig)

	fail := func(stage string, err error) (*Session, error) {
		_ = rt.Close(ctx)
		return nil, &domainerrors.UnexpectedLoadError{Path: path, Stage: stage, Err: err}
	}

	if cfg.wasi {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
			return fail("wasi", err)
		}
	}

	adapterOpts := []wazeroadapter.AdapterOption{
		wazeroadapter.WithModuleName(cfg.hostModuleName),
		wazeroadapter.WithMaxMessageSize(cfg.maxMessageSize),
		wazeroadapter.WithKeepAlive(token),
		wazeroadapter.WithLogger(cfg.logger),
	}
	for _, h := range cfg.customHandlers {
		adapterOpts = append(adapterOpts, wazeroadapter.WithCustomHandler(h))
	}
	if _, err := wazeroadapter.RegisterBridge(ctx, rt, c.bridge, adapterOpts...); err != nil {
		return fail("bridge", err)
	}

	compiled, err := rt.CompileModule(ctx, image)
	if err != nil {
		return fail("compile", err)
	}

	if !directory.HasType(compiled.ExportedFunctions(), cfg.coordinationType) {
		_ = rt.Close(ctx)
		return nil, &domainerrors.ModuleShapeError{Path: path, CoordinationType: cfg.coordinationType}
	}

	modConfig := wazero.NewModuleConfig().
		WithName(cfg.moduleName).
		WithStartFunctions()
	if cfg.wasi {
		modConfig = modConfig.WithSysWalltime().WithSysNanotime()
		if cfg.guestOutput != nil {
			modConfig = modConfig.WithStdout(cfg.guestOutput).WithStderr(cfg.guestOutput)
		}
	}

	mod, err := rt.InstantiateModule(ctx, compiled, modConfig)
	if err != nil {
		return fail("instantiate", err)
	}

	if initFn := mod.ExportedFunction("_initialize"); initFn != nil {
		if _, err := initFn.Call(ctx); err != nil {
			return fail("_initialize", err)
		}
	}

	sess := &Session{
		id:        id,
		path:      path,
		loadedAt:  time.Now(),
		runtime:   rt,
		module:    mod,
		logger:    cfg.logger,
		coordType: cfg.coordinationType,
		token:     weakRef(token),
		report:    c.reporter(),
	}
	sess.coordInit = c.coordinationHook(ctx, mod, entities.CoordinationInit, api.ValueTypeI32)
	sess.coordUpdate = c.coordinationHook(ctx, mod, entities.CoordinationUpdate, api.ValueTypeF32, api.ValueTypeF64)
	sess.coordShutdown = c.coordinationHook(ctx, mod, entities.CoordinationShutdown)

	if sess.coordInit != nil {
		var params []uint64
		if len(sess.coordInit.params) == 1 {
			params = append(params, api.EncodeI32(entities.BridgeVersion))
		}
		sess.invoke(ctx, entities.CoordinationInit, sess.coordInit, params...)
	}

	sess.dir = directory.Discover(ctx, mod,
		directory.WithLogger(cfg.logger),
		directory.WithReporter(sess.report),
		directory.WithReservedTypes(cfg.reserved()...),
	)
	return sess, nil
}

// coordinationHook resolves a static coordination function taking no
// parameters or exactly one of the allowed types. Any other shape is disabled.
func (c *Coordinator) coordinationHook(ctx context.Context, mod api.Module, name string, allowed ...api.ValueType) *coordinationHook {
	export := c.config.coordinationType + "." + name
	def, ok := mod.ExportedFunctionDefinitions()[export]
	if !ok {
		return nil
	}
	params := def.ParamTypes()
	shapeOK := len(def.ResultTypes()) == 0 && (len(params) == 0 || (len(params) == 1 && slices.Contains(allowed, params[0])))
	if !shapeOK {
		directory.ReportShape(ctx, c.config.logger, c.reporter(), c.config.coordinationType, name, def)
		return nil
	}
	return &coordinationHook{fn: mod.ExportedFunction(export), params: params}
}

// reporter returns where script diagnostics are forwarded, or nil when they
// only go to the logger.
func (c *Coordinator) reporter() directory.Reporter {
	if !c.config.diagnostics {
		return nil
	}
	return c.bridge.Log
}
