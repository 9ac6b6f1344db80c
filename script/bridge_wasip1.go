//go:build wasip1

package script

import "unsafe"

//go:wasmimport stela log
func hostLog(ptr unsafe.Pointer, length uint32)

//go:wasmimport stela key_pressed
func hostKeyPressed(key int32) int32

// Log sends message to the host log.
func Log(message string) {
	if len(message) == 0 {
		hostLog(nil, 0)
		return
	}
	hostLog(unsafe.Pointer(unsafe.StringData(message)), uint32(len(message)))
}

// KeyPressed asks the host whether key is down.
func KeyPressed(key Key) bool {
	return hostKeyPressed(int32(key)) != 0
}
