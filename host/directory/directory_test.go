package directory

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stela-engine/scripthost/domain/entities"
	"github.com/stela-engine/scripthost/hostfuncs"
	wazeroadapter "github.com/stela-engine/scripthost/infrastructure/wazero"
	"github.com/stela-engine/scripthost/internal/wasmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var (
	i32    = []byte{wasmtest.I32}
	i64    = []byte{wasmtest.I64}
	self   = []byte{wasmtest.I32}
	selfDt = []byte{wasmtest.I32, wasmtest.F32}
)

type DirectorySuite struct {
	suite.Suite

	ctx    context.Context
	rt     wazero.Runtime
	logged []string
	logBuf bytes.Buffer
	logger *slog.Logger
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.ctx = context.Background()
	s.logged = nil
	s.logBuf.Reset()
	s.logger = slog.New(slog.NewTextHandler(&s.logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	bridge := hostfuncs.NewBridge()
	bridge.Set(func(msg string) { s.logged = append(s.logged, msg) }, nil)

	s.rt = wazero.NewRuntime(s.ctx)
	_, err := wazeroadapter.RegisterBridge(s.ctx, s.rt, bridge)
	s.Require().NoError(err)
}

func (s *DirectorySuite) TearDownTest() {
	s.Require().NoError(s.rt.Close(s.ctx))
}

func (s *DirectorySuite) instantiate(m *wasmtest.Module) api.Module {
	mod, err := s.rt.Instantiate(s.ctx, m.Bytes())
	s.Require().NoError(err)
	return mod
}

func (s *DirectorySuite) discover(m *wasmtest.Module, opts ...Option) (*Directory, api.Module) {
	mod := s.instantiate(m)
	opts = append([]Option{WithLogger(s.logger)}, opts...)
	return Discover(s.ctx, mod, opts...), mod
}

func (s *DirectorySuite) TestStructuralDiscovery() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()
	selfGlobal := m.Global("player_self", -1)

	m.ExportFunc("Player.new", nil, i32, wasmtest.I32Const(7))
	m.ExportFunc("Player.OnStart", self, nil, wasmtest.StoreSelf(selfGlobal), m.Log(logFn, "Player.start"))
	m.ExportFunc("Player.OnUpdate", selfDt, nil, m.Log(logFn, "Player.update"))
	m.ExportFunc("Player.OnShutdown", self, nil, m.Log(logFn, "Player.shutdown"))

	m.ExportFunc("Enemy.OnUpdate", self, nil, m.Log(logFn, "Enemy.update"))

	m.ExportFunc("Static.OnStart", nil, nil, m.Log(logFn, "Static.start"))
	m.ExportFunc("ScriptManager.OnStart", self, nil, m.Log(logFn, "ScriptManager.start"))
	m.ExportFunc("Game.Input.OnStart", self, nil, m.Log(logFn, "Input.start"))
	m.ExportFunc("_Hidden.OnStart", self, nil, m.Log(logFn, "_Hidden.start"))
	m.ExportFunc("Game._Secret.OnStart", self, nil, m.Log(logFn, "_Secret.start"))
	m.ExportFunc("Broken.new", i32, i32, wasmtest.LocalGet(0))
	m.ExportFunc("Broken.OnStart", self, nil, m.Log(logFn, "Broken.start"))
	m.ExportFunc("helper", nil, nil)

	dir, mod := s.discover(m)

	s.Require().Equal(2, dir.Len())
	scripts := dir.Scripts()
	s.Equal(entities.ScriptInfo{
		Type: "Player", Instance: 7, HasStart: true, HasUpdate: true, HasShutdown: true, UpdateTakesDt: true,
	}, scripts[0])
	s.Equal(entities.ScriptInfo{Type: "Enemy", HasUpdate: true}, scripts[1])

	dir.Start(s.ctx)
	dir.Update(s.ctx, 0.016)
	dir.Shutdown(s.ctx)

	s.Equal([]string{"Player.start", "Player.update", "Enemy.update", "Player.shutdown"}, s.logged)
	s.Equal(uint64(7), mod.ExportedGlobal("player_self").Get())
	s.Equal(0, dir.Len())
}

func (s *DirectorySuite) TestDefinitionOrder() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()

	// Zeta's first export precedes Alpha's, so Zeta runs first even though
	// Alpha's hooks are defined in between.
	m.ExportFunc("Zeta.OnStart", self, nil, m.Log(logFn, "Zeta.start"))
	m.ExportFunc("Alpha.OnStart", self, nil, m.Log(logFn, "Alpha.start"))
	m.ExportFunc("Alpha.OnShutdown", self, nil, m.Log(logFn, "Alpha.shutdown"))
	m.ExportFunc("Zeta.OnShutdown", self, nil, m.Log(logFn, "Zeta.shutdown"))

	dir, _ := s.discover(m)
	dir.Start(s.ctx)
	dir.Shutdown(s.ctx)

	s.Equal([]string{"Zeta.start", "Alpha.start", "Zeta.shutdown", "Alpha.shutdown"}, s.logged)
}

func (s *DirectorySuite) TestUpdateSignatureMismatch() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()

	m.ExportFunc("Turret.OnStart", self, nil, m.Log(logFn, "Turret.start"))
	m.ExportFunc("Turret.OnUpdate", []byte{wasmtest.I32, wasmtest.I32}, nil, m.Log(logFn, "Turret.update"))
	m.ExportFunc("Turret.OnShutdown", self, nil, m.Log(logFn, "Turret.shutdown"))

	dir, _ := s.discover(m)
	s.Require().Equal(1, dir.Len())
	s.Equal(entities.ScriptInfo{Type: "Turret", HasStart: true, HasShutdown: true}, dir.Scripts()[0])

	dir.Start(s.ctx)
	dir.Update(s.ctx, 1)
	dir.Update(s.ctx, 1)
	dir.Shutdown(s.ctx)

	s.Equal([]string{"Turret.start", "Turret.shutdown"}, s.logged)
	s.Contains(s.logBuf.String(), "unsupported signature")
	s.Contains(s.logBuf.String(), "script=Turret")
}

func (s *DirectorySuite) TestStartShapeMismatch() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()

	m.ExportFunc("Door.OnStart", []byte{wasmtest.I32, wasmtest.I32}, nil, m.Log(logFn, "Door.start"))
	m.ExportFunc("Door.OnUpdate", self, nil, m.Log(logFn, "Door.update"))
	m.ExportFunc("Door.OnShutdown", self, i32, wasmtest.I32Const(0))

	dir, _ := s.discover(m)
	s.Require().Equal(1, dir.Len())
	s.Equal(entities.ScriptInfo{Type: "Door", HasUpdate: true}, dir.Scripts()[0])

	dir.Start(s.ctx)
	dir.Update(s.ctx, 1)
	s.Equal([]string{"Door.update"}, s.logged)
}

func (s *DirectorySuite) TestReporterReceivesDiagnostics() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()

	m.ExportFunc("Turret.OnStart", self, nil, wasmtest.Unreachable())
	m.ExportFunc("Turret.OnUpdate", []byte{wasmtest.I32, wasmtest.I32}, nil, m.Log(logFn, "Turret.update"))

	var reported []string
	dir, _ := s.discover(m, WithReporter(func(_ context.Context, msg string) {
		reported = append(reported, msg)
	}))
	dir.Start(s.ctx)

	s.Require().Len(reported, 2)
	s.Equal("Warning: Turret.OnUpdate(i32, i32) -> () has an unsupported signature, disabled", reported[0])
	s.Contains(reported[1], "Error in Turret.OnStart: ")
	s.Contains(reported[1], "unreachable")
	s.Empty(s.logged)
}

func (s *DirectorySuite) TestI64HandleAndF64Dt() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()

	m.ExportFunc("Big.new", nil, i64, wasmtest.I64Const(1<<40))
	m.ExportFunc("Big.OnUpdate", []byte{wasmtest.I64, wasmtest.F64}, nil, m.Log(logFn, "Big.update"))
	// An i32 first parameter does not match an i64 handle, so this is static.
	m.ExportFunc("Big.OnStart", self, nil, m.Log(logFn, "Big.start"))

	dir, _ := s.discover(m)
	s.Require().Equal(1, dir.Len())
	info := dir.Scripts()[0]
	s.Equal(uint64(1<<40), info.Instance)
	s.True(info.UpdateTakesDt)
	s.False(info.HasStart)

	dir.Start(s.ctx)
	dir.Update(s.ctx, 0.5)
	s.Equal([]string{"Big.update"}, s.logged)
}

func (s *DirectorySuite) TestConstructorFailureSkipsOnlyThatType() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()

	m.ExportFunc("Boom.new", nil, i32, wasmtest.Unreachable())
	m.ExportFunc("Boom.OnStart", self, nil, m.Log(logFn, "Boom.start"))
	m.ExportFunc("Fine.OnStart", self, nil, m.Log(logFn, "Fine.start"))

	dir, _ := s.discover(m)
	s.Require().Equal(1, dir.Len())
	s.Equal("Fine", dir.Scripts()[0].Type)
	s.Contains(s.logBuf.String(), "script=Boom")
	s.Contains(s.logBuf.String(), "hook=new")
}

func (s *DirectorySuite) TestFaultIsolation() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()
	calls := m.Global("", 0)

	// Flaky traps on its first update and logs on every later one.
	m.ExportFunc("Flaky.OnStart", self, nil, wasmtest.Unreachable())
	m.ExportFunc("Flaky.OnUpdate", self, nil,
		wasmtest.GlobalGet(calls),
		wasmtest.If(m.Log(logFn, "Flaky.update"), wasmtest.Seq(wasmtest.Incr(calls), wasmtest.Unreachable())),
	)
	m.ExportFunc("Steady.OnUpdate", self, nil, m.Log(logFn, "Steady.update"))

	dir, _ := s.discover(m)
	s.Require().Equal(2, dir.Len())

	dir.Start(s.ctx)
	dir.Update(s.ctx, 1)
	dir.Update(s.ctx, 1)

	s.Equal([]string{"Steady.update", "Flaky.update", "Steady.update"}, s.logged)
	s.Contains(s.logBuf.String(), "hook=OnStart")
	s.Contains(s.logBuf.String(), "hook=OnUpdate")
	s.Equal(2, dir.Len())
}

func (s *DirectorySuite) TestShutdownOnce() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()
	m.ExportFunc("Once.OnShutdown", self, nil, m.Log(logFn, "Once.shutdown"))

	dir, _ := s.discover(m)
	dir.Shutdown(s.ctx)
	dir.Shutdown(s.ctx)
	dir.Update(s.ctx, 1)

	s.Equal([]string{"Once.shutdown"}, s.logged)
}

func (s *DirectorySuite) TestCustomReservedTypes() {
	m := wasmtest.New()
	logFn, _ := m.ImportBridge()
	m.ExportFunc("Input.OnStart", self, nil, m.Log(logFn, "Input.start"))
	m.ExportFunc("Director.OnStart", self, nil, m.Log(logFn, "Director.start"))

	dir, _ := s.discover(m, WithReservedTypes("Director"))
	dir.Start(s.ctx)

	s.Equal([]string{"Input.start"}, s.logged)
}

func (s *DirectorySuite) TestHookCarriesScriptName() {
	var seen []string
	bridge := hostfuncs.NewBridge(hostfuncs.WithMiddleware(func(next hostfuncs.Invocation) hostfuncs.Invocation {
		return func(ctx context.Context) error {
			name, _ := hostfuncs.ScriptNameFromContext(ctx)
			seen = append(seen, name)
			return next(ctx)
		}
	}))
	bridge.Set(func(string) {}, nil)

	rt := wazero.NewRuntime(s.ctx)
	defer rt.Close(s.ctx)
	_, err := wazeroadapter.RegisterBridge(s.ctx, rt, bridge)
	s.Require().NoError(err)

	m := wasmtest.New()
	logFn, _ := m.ImportBridge()
	m.ExportFunc("Hero.OnStart", self, nil, m.Log(logFn, "hi"))
	mod, err := rt.Instantiate(s.ctx, m.Bytes())
	s.Require().NoError(err)

	Discover(s.ctx, mod, WithLogger(s.logger)).Start(s.ctx)
	s.Equal([]string{"Hero"}, seen)
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		export string
		typ    string
		member string
		ok     bool
	}{
		{"Player.OnStart", "Player", "OnStart", true},
		{"Game.Enemy.new", "Game.Enemy", "new", true},
		{"_initialize", "", "", false},
		{".OnStart", "", "", false},
		{"Player.", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.export, func(t *testing.T) {
			typ, member, ok := TypeName(tt.export)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, tt.member, member)
		})
	}
}

func TestReservedAndHidden(t *testing.T) {
	assert.True(t, isReserved("ScriptManager", DefaultReservedTypes))
	assert.True(t, isReserved("Engine.Input", DefaultReservedTypes))
	assert.False(t, isReserved("InputHandler", DefaultReservedTypes))

	assert.True(t, isHidden("_Private"))
	assert.True(t, isHidden("Game._Private"))
	assert.False(t, isHidden("Game.Public_"))
}

func TestHasType(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	m := wasmtest.New()
	m.ExportFunc("ScriptManager.Init", nil, nil)
	m.ExportFunc("Other", nil, nil)

	compiled, err := rt.CompileModule(ctx, m.Bytes())
	require.NoError(t, err)

	assert.True(t, HasType(compiled.ExportedFunctions(), "ScriptManager"))
	assert.False(t, HasType(compiled.ExportedFunctions(), "Other"))
}
