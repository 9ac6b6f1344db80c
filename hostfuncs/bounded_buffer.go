package hostfuncs

import (
	"bytes"
	"sync"
)

// DefaultMaxMessageSize bounds a single guest log message (64KB). Longer
// messages are cut at the bound before they reach the host callback.
const DefaultMaxMessageSize = 64 * 1024

// DefaultMaxOutputSize bounds captured guest stdout/stderr (1MB).
const DefaultMaxOutputSize = 1 * 1024 * 1024

// BoundedBuffer is a concurrency-safe io.Writer that keeps at most limit bytes.
// It is used to capture WASI guest output for display without letting a chatty
// script grow host memory.
type BoundedBuffer struct {
	mu        sync.Mutex
	buffer    bytes.Buffer
	limit     int
	truncated bool
}

// NewBoundedBuffer creates a new BoundedBuffer with the specified limit.
func NewBoundedBuffer(limit int) *BoundedBuffer {
	return &BoundedBuffer{limit: limit}
}

// Write implements io.Writer. Data past the limit is discarded and the buffer
// is marked truncated; the full length is always reported written.
func (b *BoundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.limit - b.buffer.Len()
	if remaining <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}
	if len(p) > remaining {
		b.truncated = true
		b.buffer.Write(p[:remaining])
		return len(p), nil
	}
	b.buffer.Write(p)
	return len(p), nil
}

// String returns the buffer contents as a string.
func (b *BoundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}

// Len returns the current length of the buffer.
func (b *BoundedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Len()
}

// Truncated reports whether any write was cut short.
func (b *BoundedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}

// Drain returns the contents and resets the buffer.
func (b *BoundedBuffer) Drain() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.buffer.String()
	b.buffer.Reset()
	b.truncated = false
	return s
}

// TruncateMessage cuts msg to at most limit bytes. A non-positive limit means
// DefaultMaxMessageSize.
func TruncateMessage(msg []byte, limit int) []byte {
	if limit <= 0 {
		limit = DefaultMaxMessageSize
	}
	if len(msg) > limit {
		return msg[:limit]
	}
	return msg
}
