package host

import (
	"context"
	"log/slog"
	"time"
	"weak"

	"github.com/google/uuid"
	"github.com/stela-engine/scripthost/domain/entities"
	"github.com/stela-engine/scripthost/host/directory"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// sessionToken is retained only by the bridge functions of one session's
// runtime. Once it is collected, nothing of that runtime remains reachable.
type sessionToken struct {
	path string
	id   uuid.UUID
}

// coordinationHook is a static function of the coordination type.
type coordinationHook struct {
	fn     api.Function
	params []api.ValueType
}

// Session is one loaded module: its runtime (the load context), the module
// instance and the scripts discovered in it.
type Session struct {
	loadedAt time.Time
	runtime  wazero.Runtime
	module   api.Module
	dir      *directory.Directory
	logger   *slog.Logger
	report   directory.Reporter
	token    weak.Pointer[sessionToken]

	coordInit     *coordinationHook
	coordUpdate   *coordinationHook
	coordShutdown *coordinationHook

	path      string
	coordType string
	id        uuid.UUID
	stopped   bool
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Info describes the session for host introspection.
func (s *Session) Info() *entities.SessionInfo {
	info := &entities.SessionInfo{
		ID:       s.id.String(),
		Path:     s.path,
		LoadedAt: s.loadedAt,
		Stopped:  s.stopped,
	}
	if s.dir != nil {
		info.Scripts = s.dir.Scripts()
	}
	return info
}

// start runs every script's start hook in discovery order.
func (s *Session) start(ctx context.Context) {
	s.dir.Start(ctx)
}

// update runs every script's update hook, then the coordination Update.
func (s *Session) update(ctx context.Context, dt float32) {
	if s.stopped {
		return
	}
	s.dir.Update(ctx, dt)
	if s.coordUpdate != nil {
		var params []uint64
		if len(s.coordUpdate.params) == 1 {
			params = append(params, encodeFloat(s.coordUpdate.params[0], dt))
		}
		s.invoke(ctx, entities.CoordinationUpdate, s.coordUpdate, params...)
	}
}

// stop runs every shutdown hook, then the coordination Shutdown. Only the
// first call has any effect.
func (s *Session) stop(ctx context.Context) {
	if s.stopped {
		return
	}
	s.stopped = true
	s.dir.Shutdown(ctx)
	if s.coordShutdown != nil {
		s.invoke(ctx, entities.CoordinationShutdown, s.coordShutdown)
	}
}

// revoke closes the runtime and drops every reference into it. The returned
// pointer clears once the runtime has been collected.
func (s *Session) revoke(ctx context.Context) (weak.Pointer[sessionToken], error) {
	err := s.runtime.Close(ctx)
	token := s.token
	s.runtime = nil
	s.module = nil
	s.dir = directory.New(nil, s.logger, nil)
	s.coordInit, s.coordUpdate, s.coordShutdown = nil, nil, nil
	return token, err
}

func (s *Session) invoke(ctx context.Context, name string, hook *coordinationHook, params ...uint64) {
	if err := directory.Invoke(ctx, s.coordType, name, hook.fn, params...); err != nil {
		directory.ReportHookError(ctx, s.logger, s.report, err)
	}
}

func encodeFloat(t api.ValueType, v float32) uint64 {
	if t == api.ValueTypeF64 {
		return api.EncodeF64(float64(v))
	}
	return api.EncodeF32(v)
}
