package wasmtest

import (
	"bytes"

	"github.com/tetratelabs/wabin/leb128"
	"github.com/tetratelabs/wabin/wasm"
)

// blockEmpty is the block type of a structured instruction with no results.
const blockEmpty = 0x40

// Seq concatenates instruction sequences.
func Seq(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func indexed(op wasm.Opcode, idx uint32) []byte {
	return append([]byte{op}, leb128.EncodeUint32(idx)...)
}

// Unreachable traps.
func Unreachable() []byte { return []byte{wasm.OpcodeUnreachable} }

// Drop discards the top of the stack.
func Drop() []byte { return []byte{wasm.OpcodeDrop} }

// Call calls function idx.
func Call(idx uint32) []byte { return indexed(wasm.OpcodeCall, idx) }

// LocalGet pushes local idx.
func LocalGet(idx uint32) []byte { return indexed(wasm.OpcodeLocalGet, idx) }

// GlobalGet pushes global idx.
func GlobalGet(idx uint32) []byte { return indexed(wasm.OpcodeGlobalGet, idx) }

// GlobalSet pops into global idx.
func GlobalSet(idx uint32) []byte { return indexed(wasm.OpcodeGlobalSet, idx) }

// I32Const pushes v.
func I32Const(v int32) []byte { return append([]byte{wasm.OpcodeI32Const}, leb128.EncodeInt32(v)...) }

// I64Const pushes v.
func I64Const(v int64) []byte { return append([]byte{wasm.OpcodeI64Const}, leb128.EncodeInt64(v)...) }

// I32Add adds the top two i32 values.
func I32Add() []byte { return []byte{wasm.OpcodeI32Add} }

// I32Eq compares the top two i32 values.
func I32Eq() []byte { return []byte{wasm.OpcodeI32Eq} }

// If runs then when the popped i32 is non-zero, otherwise els (which may be nil).
func If(then, els []byte) []byte {
	out := []byte{wasm.OpcodeIf, blockEmpty}
	out = append(out, then...)
	if els != nil {
		out = append(out, wasm.OpcodeElse)
		out = append(out, els...)
	}
	return append(out, wasm.OpcodeEnd)
}

// Incr adds one to i32 global idx.
func Incr(idx uint32) []byte {
	return Seq(GlobalGet(idx), I32Const(1), I32Add(), GlobalSet(idx))
}

// StoreSelf sets i32 global idx to local 0, the self handle of a method.
func StoreSelf(idx uint32) []byte {
	return Seq(LocalGet(0), GlobalSet(idx))
}
