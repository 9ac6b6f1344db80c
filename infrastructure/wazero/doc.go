// Package wazero wires the native bridge into the wazero runtime as the guest
// import module.
//
// Scripts import two functions from the host module (default name "stela"):
//
//	(import "stela" "log"         (func (param i32 i32)))
//	(import "stela" "key_pressed" (func (param i32) (result i32)))
//
// log receives a pointer and byte length into the guest's exported memory;
// key_pressed receives an ordinal key id and returns 1 when the key is down.
//
// # Basic Usage
//
//	bridge := hostfuncs.NewBridge()
//	runtime := wazero.NewRuntime(ctx)
//	_, err := wazeroadapter.RegisterBridge(ctx, runtime, bridge,
//	    wazeroadapter.WithModuleName("stela"),
//	)
//
// # Custom Handlers
//
// Extra native capabilities are host-supplied and registered next to the
// bridge functions with WithCustomHandler:
//
//	wazeroadapter.RegisterBridge(ctx, runtime, bridge,
//	    wazeroadapter.WithCustomHandler(wazeroadapter.CustomHandler{
//	        Name:        "now_ms",
//	        Handler:     nowHandler,
//	        ResultTypes: []api.ValueType{api.ValueTypeI64},
//	    }),
//	)
package wazero
