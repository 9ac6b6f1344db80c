package ports

import "context"

// ModuleWatcher reports when the module image at a path changes.
type ModuleWatcher interface {
	// Watch blocks until ctx is done, calling onChange after each change.
	Watch(ctx context.Context, onChange func(path string)) error
}
