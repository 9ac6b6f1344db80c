// Package hostfuncs implements the native bridge exposed to scripts: the two
// host-supplied callbacks (log message, key query) and the guards that keep a
// misbehaving callback from crossing into guest code.
//
// This package has no WASM runtime dependency; the wazero wiring lives in
// infrastructure/wazero.
package hostfuncs
