package entities

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key a script may query through the bridge.
// The ordinal values are part of the guest ABI and must not be reordered.
type Key int32

const (
	KeyA Key = iota
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEnter
	KeyEscape

	keyCount
)

var keyNames = [keyCount]string{
	"A", "S", "D", "F", "G", "H", "J", "K", "L",
	"Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P",
	"Z", "X", "C", "V", "B", "N", "M",
	"Up", "Down", "Left", "Right",
	"Space", "Enter", "Escape",
}

// Valid reports whether k is one of the defined key identifiers.
func (k Key) Valid() bool {
	return k >= 0 && k < keyCount
}

func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int32(k))
	}
	return keyNames[k]
}

// ParseKey resolves a key by name, case-insensitively.
func ParseKey(name string) (Key, error) {
	for i, n := range keyNames {
		if strings.EqualFold(n, name) {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// AllKeys returns every defined key in ordinal order.
func AllKeys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}
