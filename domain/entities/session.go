package entities

import "time"

// ScriptInfo describes one discovered script and the hooks bound for it.
type ScriptInfo struct {
	// Type is the script type name, e.g. "Example" for export "Example.OnStart".
	Type string `json:"type"`

	// Instance is the handle returned by the type's constructor (0 without one).
	Instance uint64 `json:"instance"`

	HasStart    bool `json:"has_start"`
	HasUpdate   bool `json:"has_update"`
	HasShutdown bool `json:"has_shutdown"`

	// UpdateTakesDt is true when OnUpdate receives the frame delta.
	UpdateTakesDt bool `json:"update_takes_dt"`
}

// SessionInfo is a snapshot of the active module session.
type SessionInfo struct {
	LoadedAt time.Time    `json:"loaded_at"`
	ID       string       `json:"id"`
	Path     string       `json:"path"`
	Scripts  []ScriptInfo `json:"scripts"`
	Stopped  bool         `json:"stopped"`
}
