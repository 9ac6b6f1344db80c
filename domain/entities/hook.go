package entities

// Hook names a script lifecycle method.
type Hook string

const (
	HookStart    Hook = "OnStart"
	HookUpdate   Hook = "OnUpdate"
	HookShutdown Hook = "OnShutdown"
)

// Hooks lists the script lifecycle methods in dispatch order.
var Hooks = []Hook{HookStart, HookUpdate, HookShutdown}

// Coordination type methods and the script constructor name.
const (
	CoordinationInit     = "Init"
	CoordinationUpdate   = "Update"
	CoordinationShutdown = "Shutdown"

	ConstructorName = "new"
)

// BridgeVersion is passed to a coordination Init that accepts one i32.
const BridgeVersion = 1
