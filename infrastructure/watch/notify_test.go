package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNotifier(t *testing.T, path string) *atomic.Int32 {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var changes atomic.Int32

	n := NewNotifier(path, WithDebounce(20*time.Millisecond))
	go func() {
		done <- n.Watch(ctx, func(string) { changes.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	// Let the watch be registered before the test touches the file.
	time.Sleep(20 * time.Millisecond)
	return &changes
}

func TestNotifier_DebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripts.wasm")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	changes := startNotifier(t, path)
	for i := range 3 {
		require.NoError(t, os.WriteFile(path, []byte{'v', byte('2' + i)}, 0o600))
	}

	require.Eventually(t, func() bool { return changes.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), changes.Load(), "a burst of writes is reported once")
}

func TestNotifier_RenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scripts.wasm")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	changes := startNotifier(t, path)
	tmp := filepath.Join(dir, "scripts.wasm.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("v2"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestNotifier_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scripts.wasm")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	changes := startNotifier(t, path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.wasm"), []byte("x"), 0o600))
	require.NoError(t, os.Remove(path))

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, changes.Load())
}

func TestNotifier_MissingDirectory(t *testing.T) {
	n := NewNotifier(filepath.Join(t.TempDir(), "absent", "scripts.wasm"))
	err := n.Watch(context.Background(), func(string) {})
	assert.ErrorContains(t, err, "failed to watch")
}

func TestNew_SelectsMode(t *testing.T) {
	assert.IsType(t, &Poller{}, New(ModePoll, "m.wasm", time.Second, nil))
	assert.IsType(t, &Notifier{}, New(ModeNotify, "m.wasm", time.Second, nil))
	assert.IsType(t, &Notifier{}, New("", "m.wasm", time.Second, nil))
}
