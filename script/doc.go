// Package script is the guest side of the native bridge, for scripts written
// in Go and built with GOOS=wasip1 -buildmode=c-shared.
//
// A script is an exported type prefix with lifecycle hooks:
//
//	//go:wasmexport Player.OnUpdate
//	func playerUpdate(self int32, dt float32) {
//	    if script.KeyPressed(script.KeySpace) {
//	        script.Log("jump")
//	    }
//	}
//
// Outside wasip1 builds Log does nothing and KeyPressed reports false, so
// script logic can be unit tested natively.
package script
