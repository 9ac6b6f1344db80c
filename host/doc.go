// Package host runs hot-reloadable script modules.
//
// A Coordinator owns at most one Session: a compiled and instantiated script
// module in its own wazero runtime, plus the directory of scripts discovered
// in it. LoadOrReload tears the current session down completely (shutdown
// hooks, runtime close, confirmed reclamation) before the replacement module
// is compiled, so two versions of the same script type never coexist.
//
// The Coordinator is not safe for concurrent use. The host drives Initialize,
// LoadOrReload, Tick and Shutdown from a single goroutine.
package host
