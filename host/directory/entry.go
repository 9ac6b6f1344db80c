package directory

import (
	"context"
	"fmt"

	"github.com/stela-engine/scripthost/domain/entities"
	domainerrors "github.com/stela-engine/scripthost/domain/errors"
	"github.com/stela-engine/scripthost/hostfuncs"
	"github.com/tetratelabs/wazero/api"
)

// Entry is one discovered script instance and its bound hooks. A nil hook is
// absent or was disabled during discovery.
type Entry struct {
	start    api.Function
	update   api.Function
	shutdown api.Function

	// Type is the script's type name, as exported by the module.
	Type string

	// Instance is the handle returned by the constructor, passed as self.
	Instance uint64

	// UpdateTakesDt is true when OnUpdate accepts the frame delta.
	UpdateTakesDt bool

	dtType api.ValueType
}

// Start invokes OnStart, if bound.
func (e *Entry) Start(ctx context.Context) error {
	return e.call(ctx, entities.HookStart, e.start)
}

// Update invokes OnUpdate, if bound, passing dt when the hook takes it.
func (e *Entry) Update(ctx context.Context, dt float32) error {
	if e.update == nil {
		return nil
	}
	if !e.UpdateTakesDt {
		return e.call(ctx, entities.HookUpdate, e.update)
	}
	return e.call(ctx, entities.HookUpdate, e.update, encodeDt(e.dtType, dt))
}

// Shutdown invokes OnShutdown, if bound.
func (e *Entry) Shutdown(ctx context.Context) error {
	return e.call(ctx, entities.HookShutdown, e.shutdown)
}

// Info describes the entry for host introspection.
func (e *Entry) Info() entities.ScriptInfo {
	return entities.ScriptInfo{
		Type:          e.Type,
		Instance:      e.Instance,
		HasStart:      e.start != nil,
		HasUpdate:     e.update != nil,
		HasShutdown:   e.shutdown != nil,
		UpdateTakesDt: e.UpdateTakesDt,
	}
}

func (e *Entry) call(ctx context.Context, hook entities.Hook, fn api.Function, extra ...uint64) error {
	if fn == nil {
		return nil
	}
	params := append([]uint64{e.Instance}, extra...)
	return Invoke(ctx, e.Type, string(hook), fn, params...)
}

// Invoke calls fn on behalf of script, attributing bridge traffic to it.
// Any trap or panic comes back as a *HookInvocationError.
func Invoke(ctx context.Context, script, hook string, fn api.Function, params ...uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domainerrors.HookInvocationError{Script: script, Hook: hook, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if _, callErr := fn.Call(hostfuncs.WithScriptName(ctx, script), params...); callErr != nil {
		return &domainerrors.HookInvocationError{Script: script, Hook: hook, Err: callErr}
	}
	return nil
}

func encodeDt(t api.ValueType, dt float32) uint64 {
	if t == api.ValueTypeF64 {
		return api.EncodeF64(float64(dt))
	}
	return api.EncodeF32(dt)
}
