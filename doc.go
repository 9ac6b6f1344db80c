// Package scripthost embeds hot-reloadable script modules in a host
// application.
//
// Runtime is the host-facing boundary: four calls with fixed signatures and
// integer status codes, driven from the host's own update loop.
//
//	rt := scripthost.New(ctx, host.WithWASI(true))
//	rt.Initialize(logMessage, isKeyDown)
//	if status := rt.LoadOrReload("scripts.wasm"); status != scripthost.StatusOK {
//	    ...
//	}
//	for running {
//	    rt.Tick(dt)
//	}
//	rt.Shutdown()
//
// Scripts are WebAssembly modules. See package script for the guest side.
package scripthost
