// Package wasmtest assembles small WebAssembly binaries for tests.
//
// Scripts in tests are written as instruction sequences rather than compiled
// from source, so fixtures stay self-contained and exercise exactly the export
// shapes discovery cares about.
package wasmtest

import (
	"bytes"

	"github.com/tetratelabs/wabin/binary"
	"github.com/tetratelabs/wabin/leb128"
	"github.com/tetratelabs/wabin/wasm"
)

// Value types.
const (
	I32 = wasm.ValueTypeI32
	I64 = wasm.ValueTypeI64
	F32 = wasm.ValueTypeF32
	F64 = wasm.ValueTypeF64
)

// BridgeModule is the import module name scripts use for the native bridge.
const BridgeModule = "stela"

// Module accumulates the sections of a WebAssembly module. Imports must be
// declared before the first defined function so indices stay stable.
type Module struct {
	mod        wasm.Module
	dataCursor uint32
}

// New returns an empty module.
func New() *Module {
	return &Module{}
}

func (m *Module) typeOf(params, results []wasm.ValueType) wasm.Index {
	for i, ft := range m.mod.TypeSection {
		if ft.EqualsSignature(params, results) {
			return wasm.Index(i)
		}
	}
	m.mod.TypeSection = append(m.mod.TypeSection, &wasm.FunctionType{Params: params, Results: results})
	return wasm.Index(len(m.mod.TypeSection) - 1)
}

// ImportFunc declares an imported function and returns its function index.
func (m *Module) ImportFunc(module, name string, params, results []byte) uint32 {
	if len(m.mod.FunctionSection) > 0 {
		panic("wasmtest: imports must precede defined functions")
	}
	m.mod.ImportSection = append(m.mod.ImportSection, &wasm.Import{
		Type:     wasm.ExternTypeFunc,
		Module:   module,
		Name:     name,
		DescFunc: m.typeOf(params, results),
	})
	return uint32(len(m.mod.ImportSection) - 1)
}

// ImportBridge declares the two bridge imports and returns their indices.
func (m *Module) ImportBridge() (logFn, keyPressedFn uint32) {
	logFn = m.ImportFunc(BridgeModule, "log", []byte{I32, I32}, nil)
	keyPressedFn = m.ImportFunc(BridgeModule, "key_pressed", []byte{I32}, []byte{I32})
	return logFn, keyPressedFn
}

// Func defines a function with the given signature, extra locals and body
// instructions, and returns its function index. The trailing end is implied.
func (m *Module) Func(params, results, locals []byte, body ...[]byte) uint32 {
	m.mod.FunctionSection = append(m.mod.FunctionSection, m.typeOf(params, results))
	code := append(bytes.Join(body, nil), wasm.OpcodeEnd)
	m.mod.CodeSection = append(m.mod.CodeSection, &wasm.Code{LocalTypes: locals, Body: code})
	return uint32(len(m.mod.ImportSection) + len(m.mod.FunctionSection) - 1)
}

// Export exports function index under name.
func (m *Module) Export(name string, funcIndex uint32) *Module {
	m.export(name, wasm.ExternTypeFunc, funcIndex)
	return m
}

func (m *Module) export(name string, kind wasm.ExternType, index wasm.Index) {
	m.mod.ExportSection = append(m.mod.ExportSection, &wasm.Export{Type: kind, Name: name, Index: index})
}

// ExportFunc defines and exports a function in one step.
func (m *Module) ExportFunc(name string, params, results []byte, body ...[]byte) uint32 {
	idx := m.Func(params, results, nil, body...)
	m.Export(name, idx)
	return idx
}

// Memory declares linear memory of minPages and exports it as "memory".
func (m *Module) Memory(minPages uint32) *Module {
	m.mod.MemorySection = &wasm.Memory{Min: minPages}
	m.export("memory", wasm.ExternTypeMemory, 0)
	return m
}

// Global declares a mutable exported i32 global and returns its index.
func (m *Module) Global(name string, initial int32) uint32 {
	m.mod.GlobalSection = append(m.mod.GlobalSection, &wasm.Global{
		Type: &wasm.GlobalType{ValType: I32, Mutable: true},
		Init: i32Expr(initial),
	})
	idx := uint32(len(m.mod.GlobalSection) - 1)
	if name != "" {
		m.export(name, wasm.ExternTypeGlobal, idx)
	}
	return idx
}

// String places s in a data segment and returns its address and length.
// Memory is declared on first use.
func (m *Module) String(s string) (ptr, length uint32) {
	if m.mod.MemorySection == nil {
		m.Memory(1)
	}
	ptr = m.dataCursor
	m.mod.DataSection = append(m.mod.DataSection, &wasm.DataSegment{
		OffsetExpression: i32Expr(int32(ptr)),
		Init:             []byte(s),
	})
	m.dataCursor += uint32(len(s))
	return ptr, uint32(len(s))
}

// Log returns instructions calling the imported log function with msg.
func (m *Module) Log(logFn uint32, msg string) []byte {
	ptr, length := m.String(msg)
	return Seq(I32Const(int32(ptr)), I32Const(int32(length)), Call(logFn))
}

// Bytes encodes the module.
func (m *Module) Bytes() []byte {
	return binary.EncodeModule(&m.mod)
}

func i32Expr(v int32) *wasm.ConstantExpression {
	return &wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: leb128.EncodeInt32(v)}
}
