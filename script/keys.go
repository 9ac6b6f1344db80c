package script

import "github.com/stela-engine/scripthost/domain/entities"

// Key identifies a key the host can be asked about.
type Key = entities.Key

// Keys, by ordinal id.
const (
	KeyA      = entities.KeyA
	KeyS      = entities.KeyS
	KeyD      = entities.KeyD
	KeyF      = entities.KeyF
	KeyG      = entities.KeyG
	KeyH      = entities.KeyH
	KeyJ      = entities.KeyJ
	KeyK      = entities.KeyK
	KeyL      = entities.KeyL
	KeyQ      = entities.KeyQ
	KeyW      = entities.KeyW
	KeyE      = entities.KeyE
	KeyR      = entities.KeyR
	KeyT      = entities.KeyT
	KeyY      = entities.KeyY
	KeyU      = entities.KeyU
	KeyI      = entities.KeyI
	KeyO      = entities.KeyO
	KeyP      = entities.KeyP
	KeyZ      = entities.KeyZ
	KeyX      = entities.KeyX
	KeyC      = entities.KeyC
	KeyV      = entities.KeyV
	KeyB      = entities.KeyB
	KeyN      = entities.KeyN
	KeyM      = entities.KeyM
	KeyUp     = entities.KeyUp
	KeyDown   = entities.KeyDown
	KeyLeft   = entities.KeyLeft
	KeyRight  = entities.KeyRight
	KeySpace  = entities.KeySpace
	KeyEnter  = entities.KeyEnter
	KeyEscape = entities.KeyEscape
)
