// Package keyboard tracks per-frame key state for the bridge's key queries.
package keyboard

import (
	"sync"

	"github.com/stela-engine/scripthost/domain/entities"
	"github.com/stela-engine/scripthost/domain/ports"
)

// DefaultHoldFrames is how many frames a press stays visible. Terminals report
// key repeats rather than key releases, so a press is held until it goes stale.
const DefaultHoldFrames = 6

// State is a ports.KeyState fed by input events. It is safe for concurrent use.
type State struct {
	lastPress  map[entities.Key]uint64
	frame      uint64
	holdFrames uint64
	mu         sync.Mutex
}

var _ ports.KeyState = (*State)(nil)

// Option configures a State.
type Option func(*State)

// WithHoldFrames sets how many frames a press stays visible. Values below one
// are treated as one.
func WithHoldFrames(n int) Option {
	return func(s *State) {
		if n < 1 {
			n = 1
		}
		s.holdFrames = uint64(n)
	}
}

// New creates an empty State.
func New(opts ...Option) *State {
	s := &State{
		lastPress:  make(map[entities.Key]uint64),
		holdFrames: DefaultHoldFrames,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Press marks key as pressed in the current frame. Invalid keys are ignored.
func (s *State) Press(key entities.Key) {
	if !key.Valid() {
		return
	}
	s.mu.Lock()
	s.lastPress[key] = s.frame
	s.mu.Unlock()
}

// Release clears key immediately.
func (s *State) Release(key entities.Key) {
	s.mu.Lock()
	delete(s.lastPress, key)
	s.mu.Unlock()
}

// KeyPressed implements ports.KeyState.
func (s *State) KeyPressed(key entities.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.lastPress[key]
	return ok && s.frame-at < s.holdFrames
}

// Pressed returns the keys currently pressed, in ordinal order.
func (s *State) Pressed() []entities.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []entities.Key
	for _, k := range entities.AllKeys() {
		if at, ok := s.lastPress[k]; ok && s.frame-at < s.holdFrames {
			keys = append(keys, k)
		}
	}
	return keys
}

// EndFrame advances the frame counter and forgets stale presses.
func (s *State) EndFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame++
	for k, at := range s.lastPress {
		if s.frame-at >= s.holdFrames {
			delete(s.lastPress, k)
		}
	}
}
