//go:build !wasip1

package script

// Log is a no-op outside wasip1 builds.
func Log(message string) {}

// KeyPressed always reports false outside wasip1 builds.
func KeyPressed(key Key) bool {
	return false
}
