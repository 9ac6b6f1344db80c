package host

import (
	"runtime"
	"runtime/debug"
	"time"
	"weak"
)

const reclaimBackoff = time.Millisecond

// reclaim forces collection cycles until ref clears or attempts run out, then
// returns freed memory to the OS. It reports the cycles used and whether the
// referent was confirmed collected.
func reclaim(ref weak.Pointer[sessionToken], attempts int) (int, bool) {
	for i := 1; i <= attempts; i++ {
		runtime.GC()
		if ref.Value() == nil {
			debug.FreeOSMemory()
			return i, true
		}
		// Objects kept alive by a pending finalizer need the finalizer
		// goroutine to run before the next cycle can free them.
		time.Sleep(reclaimBackoff)
	}
	debug.FreeOSMemory()
	return attempts, false
}

func weakRef(t *sessionToken) weak.Pointer[sessionToken] {
	return weak.Make(t)
}
