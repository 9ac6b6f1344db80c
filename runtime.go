package scripthost

import (
	"context"

	"github.com/stela-engine/scripthost/domain/entities"
	domainerrors "github.com/stela-engine/scripthost/domain/errors"
	"github.com/stela-engine/scripthost/host"
)

// Key identifies a key the host can be asked about.
type Key = entities.Key

// Status is the result code of LoadOrReload.
type Status = entities.Status

// Status codes returned by LoadOrReload.
const (
	StatusOK           = int(entities.StatusOK)
	StatusInvalidPath  = int(entities.StatusInvalidPath)
	StatusShapeMissing = int(entities.StatusShapeMissing)
	StatusUnexpected   = int(entities.StatusUnexpected)
)

// Option configures the underlying coordinator.
type Option = host.Option

// ParseKey resolves a key by name, e.g. "Space" or "a".
func ParseKey(name string) (Key, error) {
	return entities.ParseKey(name)
}

// Runtime is the host boundary around a host.Coordinator. Like the
// coordinator, it must be driven from one goroutine.
type Runtime struct {
	ctx   context.Context
	coord *host.Coordinator
}

// New creates a Runtime. ctx is used for every script call the runtime makes.
func New(ctx context.Context, opts ...Option) *Runtime {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Runtime{ctx: ctx, coord: host.NewCoordinator(opts...)}
}

// Initialize stores the host callbacks behind the script log and key query
// functions. It may be called again to replace them.
func (r *Runtime) Initialize(logFn func(message string), keyPressedFn func(key Key) bool) {
	r.coord.Initialize(logFn, keyPressedFn)
}

// LoadOrReload replaces the active script module with the one at path and
// reports one of the Status codes.
func (r *Runtime) LoadOrReload(path string) int {
	return int(domainerrors.StatusOf(r.coord.LoadOrReload(r.ctx, path)))
}

// Tick runs one frame of script updates.
func (r *Runtime) Tick(dt float32) {
	r.coord.Tick(r.ctx, dt)
}

// Shutdown runs every script's shutdown hook once.
func (r *Runtime) Shutdown() {
	r.coord.Shutdown(r.ctx)
}

// Close shuts down and releases the active module.
func (r *Runtime) Close() error {
	return r.coord.Close(r.ctx)
}

// Coordinator exposes the underlying coordinator for introspection.
func (r *Runtime) Coordinator() *host.Coordinator {
	return r.coord
}
