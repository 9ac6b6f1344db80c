// Package directory discovers scripts in an instantiated module and dispatches
// their lifecycle hooks.
//
// A script is any exported type prefix whose functions include at least one
// of OnStart, OnUpdate or OnShutdown taking the instance handle as the first
// parameter:
//
//	Player.new        () -> i32          optional constructor, returns the handle
//	Player.OnStart    (self)
//	Player.OnUpdate   (self) | (self, f32) | (self, f64)
//	Player.OnShutdown (self)
//
// No registration, interface or metadata section is involved; the export
// table is the only source of truth.
package directory
